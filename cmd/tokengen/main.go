// Command tokengen mints credentials for a local locreg server: account
// access tokens and admin tokens with their bcrypt hash.
//
// Access tokens are signed with the development key unless -key is given,
// so they only work against a server using the same JWT_SIGNING_KEY.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	jwttoken "locreg/internal/jwt_token"
	id "locreg/pkg/domain"
	"locreg/pkg/secrets"
)

const (
	// devSigningKey matches the config default when JWT_SIGNING_KEY is unset.
	devSigningKey = "dev-secret-key-change-in-production"
	devIssuer     = "locreg"
	devAccount    = "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"
)

type command struct {
	summary string
	run     func(args []string, out io.Writer) error
}

var commands = map[string]command{
	"access": {summary: "sign an account access token (JWT)", run: runAccess},
	"admin":  {summary: "create an admin token and its LOCREG_ADMIN_TOKEN_HASH", run: runAdmin},
}

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}
	name := os.Args[1]
	if name == "help" || name == "-h" || name == "--help" {
		usage(os.Stdout)
		return
	}
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "tokengen: unknown command %q\n\n", name)
		usage(os.Stderr)
		os.Exit(2)
	}
	if err := cmd.run(os.Args[2:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "tokengen %s: %v\n", name, err)
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: tokengen <command> [flags]")
	fmt.Fprintln(w)
	for _, name := range []string{"access", "admin"} {
		fmt.Fprintf(w, "  %-8s %s\n", name, commands[name].summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "examples:")
	fmt.Fprintln(w, "  tokengen access -account 5FHneW46xGXgs5mUiveU4sbTyGBzmstUspZC92UhjJM694ty -ttl 1h")
	fmt.Fprintln(w, "  tokengen admin -token my-admin-token -json")
}

type accessToken struct {
	Token     string `json:"token"`
	Account   string `json:"account"`
	Issuer    string `json:"issuer"`
	JTI       string `json:"jti"`
	ExpiresIn string `json:"expires_in"`
	DevKey    bool   `json:"dev_key"`
}

func runAccess(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("access", flag.ContinueOnError)
	rawAccount := fs.String("account", devAccount, "SS58 account the token is issued to")
	key := fs.String("key", devSigningKey, "HS256 signing key (JWT_SIGNING_KEY)")
	issuer := fs.String("issuer", devIssuer, "token issuer (JWT_ISSUER)")
	ttl := fs.Duration("ttl", 15*time.Minute, "token lifetime")
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	account, err := id.ParseAccountID(*rawAccount)
	if err != nil {
		return fmt.Errorf("invalid account: %w", err)
	}
	token, jti, err := jwttoken.NewJWTService(*key, *issuer, *ttl).GenerateAccountToken(context.Background(), account)
	if err != nil {
		return err
	}

	result := accessToken{
		Token:     token,
		Account:   account.String(),
		Issuer:    *issuer,
		JTI:       jti,
		ExpiresIn: ttl.String(),
		DevKey:    *key == devSigningKey,
	}
	if *asJSON {
		return writeJSON(out, result)
	}
	fmt.Fprintf(out, "account:    %s\nissuer:     %s\njti:        %s\nexpires in: %s\ndev key:    %t\n\n%s\n\n",
		result.Account, result.Issuer, result.JTI, result.ExpiresIn, result.DevKey, result.Token)
	fmt.Fprintln(out, `curl -H "Authorization: Bearer $TOKEN" http://localhost:8080/locs/<id>`)
	return nil
}

type adminToken struct {
	Token string `json:"token"`
	Hash  string `json:"hash"`
}

func runAdmin(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("admin", flag.ContinueOnError)
	token := fs.String("token", "", "admin token to hash; a random one is generated when empty")
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *token == "" {
		generated, err := secrets.Generate()
		if err != nil {
			return fmt.Errorf("generate token: %w", err)
		}
		*token = generated
	}
	hash, err := secrets.Hash(*token)
	if err != nil {
		return fmt.Errorf("hash token: %w", err)
	}

	if *asJSON {
		return writeJSON(out, adminToken{Token: *token, Hash: hash})
	}
	fmt.Fprintf(out, "token: %s\n\nserver env:\n  LOCREG_ADMIN_TOKEN_HASH='%s'\n\n", *token, hash)
	fmt.Fprintf(out, "curl -H \"X-Admin-Token: %s\" http://localhost:8080/admin/stats\n", *token)
	return nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
