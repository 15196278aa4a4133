package common

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DeepCopyByJson copies src into dst through a JSON round trip. Numbers held
// in interface{} values come back as float64.
func DeepCopyByJson(dst, src interface{}) error {
	data, err := json.Marshal(src)
	if err != nil {
		return errors.Wrap(err, "")
	}
	return errors.Wrap(json.Unmarshal(data, dst), "")
}
