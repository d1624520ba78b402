// Command useradd registers an account directly in the metadata database.
//
//	useradd -email bob@dylan.com [-generate=true] [server config flags]
//
// Without -generate the password is read twice from the terminal.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/osamanazar47/alx-files-manager/internal/flagx"
	"github.com/osamanazar47/alx-files-manager/internal/prompt"
	"github.com/osamanazar47/alx-files-manager/internal/server"
	"github.com/osamanazar47/alx-files-manager/internal/server/config"
)

func main() {

	ctx := context.Background()
	args := os.Args[1:]

	var (
		email    string
		generate bool
	)
	fs := flag.NewFlagSet("useradd", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&email, "email", "", "account email")
	fs.BoolVar(&generate, "generate", false, "generate a random password and print it")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-email", "-generate"})); err != nil {
		log.Fatalf("%v", err)
	}

	cfg, err := config.LoadConfig(args)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if email == "" {
		if email, err = prompt.Line(bufio.NewReader(os.Stdin), "Email", os.Stdout); err != nil {
			log.Fatalf("%v", err)
		}
	}

	var password string
	if generate {
		password, err = prompt.GeneratePassword()
	} else {
		password, err = prompt.NewPassword(os.Stdout)
	}
	if err != nil {
		log.Fatalf("%v", err)
	}

	user, err := server.RegisterUser(ctx, cfg, email, password)
	if err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Printf("created user %s (%s)\n", user.Email, user.ID)
	if generate {
		fmt.Printf("password: %s\n", password)
	}

}
