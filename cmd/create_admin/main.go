// Command create_admin prints the environment values for the admin account:
// a bcrypt hash for ADMIN_PASSWORD_HASH and a random SESSION_SECRET.
package main

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/bcrypt"

	"medadmit/internal/util"
)

const minPasswordLength = 12

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = path.Base(os.Args[0])
	app.Usage = "Generate admin credentials for the counselling backend"
	app.Writer = out
	app.Commands = []*cli.Command{
		{
			Name:  "hash",
			Usage: "Hash an admin password",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "username",
					Usage:   "Admin username",
					EnvVars: []string{"ADMIN_USERNAME"},
					Value:   "admin",
				},
				&cli.StringFlag{
					Name:     "password",
					Usage:    "Admin password",
					EnvVars:  []string{"ADMIN_PASSWORD"},
					Required: true,
				},
				&cli.IntFlag{
					Name:  "cost",
					Usage: "bcrypt cost",
					Value: bcrypt.DefaultCost,
				},
			},
			Action: func(c *cli.Context) error {
				return writeHash(c.App.Writer, c.String("username"), c.String("password"), c.Int("cost"))
			},
		},
		{
			Name:  "secret",
			Usage: "Generate a SESSION_SECRET",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "bytes",
					Usage: "Random bytes before encoding",
					Value: 48,
				},
			},
			Action: func(c *cli.Context) error {
				return writeSecret(c.App.Writer, c.Int("bytes"))
			},
		},
	}
	app.CommandNotFound = func(c *cli.Context, command string) {
		logrus.Fatalf("Command %s not found.", command)
	}
	return app
}

func writeHash(out io.Writer, username, password string, cost int) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return errors.New("username must not be empty")
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	hash, err := util.HashPasswordWithCost(password, cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	fmt.Fprintf(out, "ADMIN_USERNAME=%s\n", username)
	// Single quotes keep the $ separators intact in .env files and shells.
	fmt.Fprintf(out, "ADMIN_PASSWORD_HASH='%s'\n", hash)
	return nil
}

func writeSecret(out io.Writer, n int) error {
	if n < 32 {
		return errors.New("bytes must be at least 32")
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return err
	}
	fmt.Fprintf(out, "SESSION_SECRET=%s\n", base64.RawURLEncoding.EncodeToString(b))
	return nil
}
