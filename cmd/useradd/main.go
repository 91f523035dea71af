package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/andrasnagy-data/authsvc/internal/components/auth"
	"github.com/andrasnagy-data/authsvc/internal/shared/config"
)

// storeEnv is the subset of the server configuration that locates the credential file.
type storeEnv struct {
	UsersFolder      string        `env:"USERS_FOLDER" envDefault:"./data"`
	UsersFile        string        `env:"USERS_FILE" envDefault:"users.json"`
	StoreLockTimeout time.Duration `env:"STORE_LOCK_TIMEOUT" envDefault:"5s"`
}

func main() {
	userType := flag.String("type", string(auth.StandardUser), "account type: StandardUser or ServiceAccount")
	roles := flag.String("roles", "", "comma-separated roles; defaults to the account type")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: go run cmd/useradd/main.go [-type StandardUser|ServiceAccount] [-roles a,b] <username> [password]")
		fmt.Fprintln(os.Stderr, "The password is read from stdin when omitted.")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 || flag.NArg() > 2 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0), flag.Arg(1), *userType, *roles); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(username, password, userType, roles string) error {
	t, err := auth.ParseUserType(userType)
	if err != nil {
		return err
	}

	if password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		return fmt.Errorf("password must not be empty")
	}

	var se storeEnv
	if err := env.Parse(&se); err != nil {
		return err
	}
	cfg := &config.Config{
		UsersFolder:      se.UsersFolder,
		UsersFile:        se.UsersFile,
		StoreLockTimeout: se.StoreLockTimeout,
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	rec := auth.UserRecord{
		Username:     username,
		PasswordHash: hash,
		Type:         t,
		Roles:        splitRoles(roles),
	}
	if err := auth.NewRepo(cfg).Upsert(context.Background(), rec); err != nil {
		return err
	}

	fmt.Printf("Stored %s (%s) in %s\n", username, t, cfg.UsersPath())
	return nil
}

func splitRoles(s string) []string {
	var roles []string
	for _, r := range strings.Split(s, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roles = append(roles, r)
		}
	}
	return roles
}
