// Command adminpw prints a bcrypt hash suitable for ADMIN_PASSWORD_HASH.
//
// Usage:
//
//	adminpw [-cost N] [password]
//
// With no argument the password is read from the first line of stdin.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"eventrsvp/internal/adapters/auth"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	flag.Parse()

	password := flag.Arg(0)
	if password == "" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(os.Stderr, "adminpw: no password given")
			os.Exit(2)
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		fmt.Fprintln(os.Stderr, "adminpw: password must not be empty")
		os.Exit(2)
	}

	hash, err := auth.NewBcryptHasher(*cost).Hash(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "adminpw: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
