// Command codectl converts between numeric record ids and public codes, and
// mints access tokens for local testing.
//
// Usage:
//
//	codectl encode <type> <id>...
//	codectl decode <type> <code>...
//	codectl token <user-id> [role]
//
// It reads CODEC_SECRET, CODEC_MIN_LENGTH and the AUTH_* settings from the
// environment so its output matches the server's.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/heartmarshall/contracthub-backend/internal/auth"
	"github.com/heartmarshall/contracthub-backend/internal/codec"
	"github.com/heartmarshall/contracthub-backend/internal/config"
	"github.com/heartmarshall/contracthub-backend/internal/domain"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: codectl encode|decode <type> <value>... | codectl token <user-id> [role]")
	}
	flag.Parse()

	if err := run(flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "codectl:", err)
		os.Exit(1)
	}
}

var errUsage = errors.New("bad arguments, run with -h for usage")

func run(args []string) error {
	if len(args) < 2 {
		return errUsage
	}

	switch args[0] {
	case "encode", "decode":
		var cfg config.CodecConfig
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return fmt.Errorf("read codec config: %w", err)
		}
		codecs, err := codec.NewRegistry(cfg.Secret, cfg.MinLength)
		if err != nil {
			return err
		}
		t := domain.EntityType(args[1])
		if !t.IsValid() {
			return fmt.Errorf("unknown type %q", args[1])
		}
		for _, v := range args[2:] {
			out, err := convert(codecs, args[0], t, v)
			if err != nil {
				return err
			}
			fmt.Printf("%s\t%s\n", v, out)
		}
		return nil

	case "token":
		var cfg config.AuthConfig
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return fmt.Errorf("read auth config: %w", err)
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("user id must be a positive integer")
		}
		role := domain.UserRoleUser.String()
		if len(args) > 2 {
			role = args[2]
		}
		token, err := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL).GenerateAccessToken(id, role)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	}
	return errUsage
}

func convert(codecs *codec.Registry, op string, t domain.EntityType, v string) (string, error) {
	if op == "encode" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return "", fmt.Errorf("id %q: %w", v, err)
		}
		return codecs.Encode(t, id)
	}
	id, err := codecs.Decode(t, v)
	if err != nil {
		return "", fmt.Errorf("code %q: %w", v, err)
	}
	return strconv.FormatInt(id, 10), nil
}
