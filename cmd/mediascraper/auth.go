package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"mediascraper/pkg/auth"
	"mediascraper/pkg/config"
	"mediascraper/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage site credentials",
	Long: `Manage stored site login credentials securely.

Credentials are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (read-only fallback)

Never share your credentials or config files!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [domain]",
	Short: "Store login credentials for a domain",
	Long: `Store login credentials for a scraped domain securely.

You will be prompted for the username and password. The password is
hidden as you type. The domain defaults to instagram.com when omitted.`,
	Example: `  # Store Instagram credentials
  mediascraper auth login

  # Store credentials for an explicit domain
  mediascraper auth login instagram.com`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout [domain]",
	Short: "Remove stored credentials",
	Long: `Remove stored credentials for a domain. The domain defaults to
instagram.com when omitted.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogout,
}

// listCmd represents the auth list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored credentials",
	Long:  `List all stored credentials with passwords masked.`,
	Run:   runList,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(listCmd)
}

func runLogin(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	domain := config.InstagramDomain
	if len(args) > 0 {
		domain = strings.TrimSpace(args[0])
	}

	reader := bufio.NewReader(os.Stdin)

	if existing, _ := manager.Retrieve(domain); existing != nil {
		fmt.Printf("Credentials for '%s' already exist. Update them? (y/N): ", domain)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
	}

	fmt.Printf("Username for %s: ", domain)
	input, err := reader.ReadString('\n')
	if err != nil {
		ui.PrintError("Failed to read username", err.Error())
		os.Exit(1)
	}
	username := strings.TrimSpace(input)
	if username == "" {
		ui.PrintError("Username is required")
		os.Exit(1)
	}

	fmt.Print("Password (hidden): ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		ui.PrintError("Failed to read password", err.Error())
		os.Exit(1)
	}
	password := strings.TrimSpace(string(passwordBytes))
	if password == "" {
		ui.PrintError("Password is required")
		os.Exit(1)
	}

	account := &auth.Account{
		Domain:   domain,
		Username: username,
		Password: password,
	}
	if err := manager.Store(account); err != nil {
		ui.PrintError("Failed to store credentials", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess(fmt.Sprintf("Credentials for %s stored securely", domain))
}

func runLogout(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	domain := config.InstagramDomain
	if len(args) > 0 {
		domain = strings.TrimSpace(args[0])
	}

	if err := manager.Delete(domain); err != nil {
		ui.PrintError("Failed to remove credentials", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess(fmt.Sprintf("Credentials for %s removed", domain))
}

func runList(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	accounts, err := manager.List()
	if err != nil {
		ui.PrintError("Failed to list credentials", err.Error())
		os.Exit(1)
	}

	if len(accounts) == 0 {
		ui.PrintWarning("No stored credentials")
		fmt.Println("\nTo store credentials, run:")
		fmt.Println("  mediascraper auth login")
		return
	}

	fmt.Println("Stored credentials:")
	for _, account := range accounts {
		sanitized := auth.SanitizeAccount(account)
		fmt.Printf("  %s  %s (%s)  modified %s\n",
			ui.Cyan(sanitized.Domain),
			sanitized.Username,
			ui.Dim(sanitized.Password),
			sanitized.LastModified.Format(time.RFC3339))
	}
}
