package common

import (
	"bytes"
	"crypto/aes"
	"crypto/md5"
	"encoding/hex"
	"strings"

	"github.com/housepower/cohortcmp/config"
	"github.com/housepower/cohortcmp/log"
)

const defaultSecretKey = "cohortcmp secret"

func aesKey() []byte {
	secret := config.GlobalConfig.Server.SecretKey
	if secret == "" {
		secret = defaultSecretKey
	}
	sum := md5.Sum([]byte(secret))
	return sum[:]
}

// AesEncryptECB encrypts origData with AES-128-ECB and PKCS7 padding and
// returns the upper case hex of the cipher text.
func AesEncryptECB(origData string) string {
	if origData == "" {
		return ""
	}
	block, err := aes.NewCipher(aesKey())
	if err != nil {
		log.Logger.Errorf("aes cipher: %v", err)
		return ""
	}
	plain := pkcs7Padding([]byte(origData), block.BlockSize())
	encrypted := make([]byte, len(plain))
	for bs, be := 0, block.BlockSize(); bs < len(plain); bs, be = bs+block.BlockSize(), be+block.BlockSize() {
		block.Encrypt(encrypted[bs:be], plain[bs:be])
	}
	return strings.ToUpper(hex.EncodeToString(encrypted))
}

// AesDecryptECB reverses AesEncryptECB. Values that are not valid cipher
// text are returned as they are, so plain passwords written by hand into
// a store keep working.
func AesDecryptECB(encrypted string) string {
	if encrypted == "" {
		return ""
	}
	data, err := hex.DecodeString(encrypted)
	if err != nil {
		return encrypted
	}
	block, err := aes.NewCipher(aesKey())
	if err != nil {
		log.Logger.Errorf("aes cipher: %v", err)
		return encrypted
	}
	if len(data)%block.BlockSize() != 0 {
		return encrypted
	}
	decrypted := make([]byte, len(data))
	for bs, be := 0, block.BlockSize(); bs < len(data); bs, be = bs+block.BlockSize(), be+block.BlockSize() {
		block.Decrypt(decrypted[bs:be], data[bs:be])
	}
	plain, ok := pkcs7UnPadding(decrypted, block.BlockSize())
	if !ok {
		return encrypted
	}
	return string(plain)
}

func pkcs7Padding(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

func pkcs7UnPadding(data []byte, blockSize int) ([]byte, bool) {
	length := len(data)
	if length == 0 {
		return nil, false
	}
	padding := int(data[length-1])
	if padding == 0 || padding > blockSize || padding > length {
		return nil, false
	}
	for _, b := range data[length-padding:] {
		if int(b) != padding {
			return nil, false
		}
	}
	return data[:length-padding], true
}
