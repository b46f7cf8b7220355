package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mikebijl/attrm/internal/auth"
	"github.com/mikebijl/attrm/internal/constants"
)

var (
	loginProvider  string
	logoutProvider string
	logoutYes      bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store an API key in the system keyring",
	Long: `Store the API key for an LLM provider in the system keyring.

The key is read without echoing it. When the provider's environment variable
(for example ANTHROPIC_API_KEY) is set, it takes priority over the stored key.

Examples:
  attrm login
  attrm login --provider openai`,
	Args: userArgs(cobra.NoArgs),
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove a stored API key",
	Args:  userArgs(cobra.NoArgs),
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)

	loginCmd.Flags().StringVar(&loginProvider, "provider", string(constants.DefaultProvider), "LLM provider ("+constants.ProviderNames()+")")
	logoutCmd.Flags().StringVar(&logoutProvider, "provider", string(constants.DefaultProvider), "LLM provider ("+constants.ProviderNames()+")")
	logoutCmd.Flags().BoolVarP(&logoutYes, "yes", "y", false, "Skip confirmation prompt")
}

func parseProviderFlag(name string) (constants.Provider, constants.ProviderInfo, error) {
	provider, ok := constants.ParseProvider(name)
	if !ok {
		return "", constants.ProviderInfo{}, userErrorf("unknown provider %q (available: %s)", name, constants.ProviderNames())
	}
	info, _ := constants.GetProviderInfo(provider)
	return provider, info, nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	out := cmd.ErrOrStderr()
	titleColor := color.New(color.FgHiCyan, color.Bold)
	successColor := color.New(color.FgHiGreen)
	warnColor := color.New(color.FgHiYellow)
	dimColor := color.New(color.FgHiBlack)

	provider, info, err := parseProviderFlag(loginProvider)
	if err != nil {
		return err
	}
	if !info.NeedsAPIKey {
		dimColor.Fprintf(out, "  %s runs locally and needs no API key.\n", info.Name)
		return nil
	}

	fmt.Fprintln(out)
	titleColor.Fprintf(out, "  Log in to %s\n", info.Name)
	dimColor.Fprintf(out, "  %s\n\n", info.Description)
	dimColor.Fprintf(out, "  Create an API key at %s\n", info.APIKeyURL)
	if info.APIKeyEnv != "" {
		dimColor.Fprintf(out, "  When %s is set it is used instead of the stored key.\n", info.APIKeyEnv)
	}
	fmt.Fprintf(out, "\n  API key: ")

	key, err := readSecret(cmd.InOrStdin())
	fmt.Fprintln(out)
	if err != nil {
		return fmt.Errorf("failed to read API key: %w", err)
	}
	if key == "" {
		return userErrorf("No API key provided. Authentication cancelled.")
	}

	if info.APIKeyPrefix != "" && !strings.HasPrefix(key, info.APIKeyPrefix) {
		warnColor.Fprintf(out, "  Warning: %s keys usually start with %q\n", info.Name, info.APIKeyPrefix)
	}

	if err := auth.SetAPIKey(provider, key); err != nil {
		return err
	}
	successColor.Fprintf(out, "  Stored %s API key in the system keyring\n", info.Name)
	return nil
}

// readSecret reads one line without echo when in is a terminal.
func readSecret(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	out := cmd.ErrOrStderr()
	successColor := color.New(color.FgHiGreen)
	dimColor := color.New(color.FgHiBlack)

	provider, info, err := parseProviderFlag(logoutProvider)
	if err != nil {
		return err
	}

	stored, err := auth.StoredAPIKey(provider)
	if err != nil {
		return err
	}
	if stored == "" {
		return userErrorf("No stored credentials found for %s.", info.Name)
	}

	if !logoutYes {
		if !isTerminal(cmd.InOrStdin()) {
			return userErrorf("refusing to remove the %s API key without confirmation; use --yes", info.Name)
		}
		prompt := promptui.Prompt{
			Label:     fmt.Sprintf("Remove the stored %s API key", info.Name),
			IsConfirm: true,
		}
		if _, err := prompt.Run(); err != nil {
			dimColor.Fprintln(out, "  Cancelled")
			return nil
		}
	}

	if err := auth.DeleteAPIKey(provider); err != nil {
		return err
	}
	successColor.Fprintf(out, "  Removed %s API key\n", info.Name)
	return nil
}
