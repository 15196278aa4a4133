package common

import (
	"testing"

	"github.com/housepower/cohortcmp/config"
	"github.com/stretchr/testify/assert"
)

const (
	PasswordDecFake = "Cohort@123#?456!"
	PasswordEncFake = "ECD276AB290CC95BC1E3956A51EDE50D7372923C268B67A950D3A4017382C107"
)

func TestAesDecryptECB(t *testing.T) {
	assert.Equal(t, PasswordDecFake, AesDecryptECB(PasswordEncFake))
}

func TestAesEncryptECB(t *testing.T) {
	assert.Equal(t, PasswordEncFake, AesEncryptECB(PasswordDecFake))
}

func TestAes(t *testing.T) {
	assert.Equal(t, "0A82A78B8C35EABA527B8C411FA9E240", AesEncryptECB("ohdsi"))
	assert.Equal(t, "ohdsi", AesDecryptECB("0A82A78B8C35EABA527B8C411FA9E240"))
	assert.Equal(t, "", AesEncryptECB(""))
	assert.Equal(t, "", AesDecryptECB(""))
	// not cipher text
	assert.Equal(t, "jdbc:postgresql://localhost/cdm", AesDecryptECB("jdbc:postgresql://localhost/cdm"))
}

func TestAesSecretKey(t *testing.T) {
	old := config.GlobalConfig.Server.SecretKey
	defer func() { config.GlobalConfig.Server.SecretKey = old }()

	config.GlobalConfig.Server.SecretKey = "another key"
	assert.Equal(t, "3B0D3E23F81612AC3736AF287DFAB80C", AesEncryptECB("ohdsi"))
	assert.Equal(t, "ohdsi", AesDecryptECB("3B0D3E23F81612AC3736AF287DFAB80C"))
}
