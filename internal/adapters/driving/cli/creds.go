package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/autojoin/internal/core/domain"
)

// googleAccount is accepted in place of a platform for Google account secrets.
const googleAccount = "google"

var credsCmd = &cobra.Command{
	Use:   "creds",
	Short: "Manage account passwords used to sign in",
	Long: `Stores the passwords autojoin uses when it has to sign in to a meeting
platform in the browser. Passwords live in the system keyring.

Platforms are zoom, meet and teams. Use "google" for the Google account
that Meet and Zoom's Google sign-in use.`,
}

var credsSetCmd = &cobra.Command{
	Use:   "set <platform> <email>",
	Short: "Store a password",
	Long: `Stores a password. It is read from the terminal without echo, or from
the first line of standard input when not attached to a terminal.`,
	Args: cobra.ExactArgs(2),
	RunE: runCredsSet,
}

var credsDeleteCmd = &cobra.Command{
	Use:   "delete <platform> <email>",
	Short: "Delete a stored password",
	Args:  cobra.ExactArgs(2),
	RunE:  runCredsDelete,
}

var credsCheckCmd = &cobra.Command{
	Use:   "check <platform> <email>",
	Short: "Report whether a password is stored",
	Args:  cobra.ExactArgs(2),
	RunE:  runCredsCheck,
}

// secretReader reads a secret from stdin. Replaced in tests.
var secretReader = readSecret

func init() {
	credsCmd.AddCommand(credsSetCmd, credsDeleteCmd, credsCheckCmd)
	rootCmd.AddCommand(credsCmd)
}

// credentialTarget resolves the platform argument. Google yields an empty
// platform.
func credentialTarget(arg string) (domain.Platform, error) {
	if strings.EqualFold(strings.TrimSpace(arg), googleAccount) {
		return "", nil
	}
	return domain.ParsePlatform(arg)
}

func runCredsSet(cmd *cobra.Command, args []string) error {
	creds, err := credentialsService()
	if err != nil {
		return err
	}
	platform, err := credentialTarget(args[0])
	if err != nil {
		return err
	}
	email := args[1]

	cmd.Printf("Password for %s: ", email)
	secret, err := secretReader(cmd.InOrStdin())
	cmd.Println()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if secret == "" {
		return fmt.Errorf("%w: empty password", domain.ErrInvalidInput)
	}

	if platform == "" {
		err = creds.SetGoogle(email, secret)
	} else {
		err = creds.Set(platform, email, secret)
	}
	if err != nil {
		return fmt.Errorf("failed to store password: %w", err)
	}
	cmd.Printf("Stored password for %s (%s).\n", email, targetName(platform))
	return nil
}

func runCredsDelete(cmd *cobra.Command, args []string) error {
	creds, err := credentialsService()
	if err != nil {
		return err
	}
	platform, err := credentialTarget(args[0])
	if err != nil {
		return err
	}
	if platform == "" {
		platform = domain.PlatformGoogleMeet
	}

	if err := creds.Delete(platform, args[1]); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no password stored for %s", args[1])
		}
		return fmt.Errorf("failed to delete password: %w", err)
	}
	cmd.Printf("Deleted password for %s (%s).\n", args[1], targetName(platform))
	return nil
}

func runCredsCheck(cmd *cobra.Command, args []string) error {
	creds, err := credentialsService()
	if err != nil {
		return err
	}
	platform, err := credentialTarget(args[0])
	if err != nil {
		return err
	}
	if platform == "" {
		platform = domain.PlatformGoogleMeet
	}

	ok, err := creds.Has(platform, args[1])
	if err != nil {
		return fmt.Errorf("failed to check password: %w", err)
	}
	if ok {
		cmd.Printf("%s %s (%s)\n", termStyles.Outcome(true, "stored"), args[1], targetName(platform))
	} else {
		cmd.Printf("%s %s (%s)\n", termStyles.Outcome(false, "missing"), args[1], targetName(platform))
	}
	return nil
}

func targetName(p domain.Platform) string {
	if p == "" {
		return "Google account"
	}
	return p.DisplayName()
}

// readSecret reads without echo from a terminal, else one line from r.
func readSecret(r io.Reader) (string, error) {
	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
