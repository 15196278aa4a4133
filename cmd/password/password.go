package password

import (
	"fmt"
	"os"

	"github.com/housepower/cohortcmp/common"
	"github.com/housepower/cohortcmp/config"
	"golang.org/x/term"
)

// PasswordHandle reads a secret twice without echo and prints its encrypted
// form, ready for a source connection or a persistent_config password.
func PasswordHandle(secretKey string) {
	if secretKey != "" {
		config.GlobalConfig.Server.SecretKey = secretKey
	}
	fmt.Printf("Enter password: ")
	bytePassword, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		fmt.Printf("\nEnter password fail: %v\n", err)
		return
	}
	if len(bytePassword) == 0 {
		fmt.Println("\nPassword must not be empty")
		return
	}

	fmt.Printf("\nReenter password: ")
	dupPassword, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		fmt.Printf("\nReenter password fail: %v\n", err)
		return
	}

	if string(bytePassword) != string(dupPassword) {
		fmt.Println("\nPassword mismatch")
		return
	}

	fmt.Printf("\n%s\n", common.AesEncryptECB(string(bytePassword)))
}
