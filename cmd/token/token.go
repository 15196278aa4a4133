package token

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/housepower/cohortcmp/common"
	"github.com/housepower/cohortcmp/config"
)

type TokenOpts struct {
	ConfigFile string
	Name       string
	UserId     int
	ClientIP   string
	TTL        time.Duration
}

// Issue signs a token with the signing key of the service config.
func Issue(opts TokenOpts) (string, error) {
	if opts.ConfigFile != "" {
		if err := config.ParseConfigFile(opts.ConfigFile, ""); err != nil {
			return "", err
		}
	}
	claims := common.CustomClaims{
		StandardClaims: jwt.StandardClaims{
			IssuedAt: time.Now().Unix(),
			Issuer:   "cohortctl",
		},
		Name:     opts.Name,
		UserId:   opts.UserId,
		ClientIP: opts.ClientIP,
	}
	if opts.TTL > 0 {
		claims.ExpiresAt = time.Now().Add(opts.TTL).Unix()
	}
	return common.NewJWT().CreateToken(claims)
}

func TokenHandle(opts TokenOpts) {
	token, err := Issue(opts)
	if err != nil {
		fmt.Printf("issue token failed: %v\n", err)
		return
	}
	fmt.Println(token)
}
