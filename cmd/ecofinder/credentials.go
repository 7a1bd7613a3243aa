package main

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ecofinder/backend/internal/domain"
	"github.com/ecofinder/backend/internal/logging"
)

// CredentialsCmd manages the API keys used by the enrichment sources
type CredentialsCmd struct {
	store domain.CredentialStore
	out   printer
}

// SetCredentialInput holds input for storing a key
type SetCredentialInput struct {
	Name   string
	Secret string
}

// Set stores a key
func (c CredentialsCmd) Set(ctx context.Context, in SetCredentialInput) error {
	if err := checkCredentialName(in.Name); err != nil {
		return err
	}
	if strings.TrimSpace(in.Secret) == "" {
		return fmt.Errorf("%w: secret must not be empty", domain.ErrInvalidRequest)
	}

	if err := c.store.Set(ctx, in.Name, strings.TrimSpace(in.Secret)); err != nil {
		return fmt.Errorf("store %s: %w", in.Name, err)
	}

	c.out.success("Stored %s\n", in.Name)
	return nil
}

// GetCredentialInput holds input for reading a key
type GetCredentialInput struct {
	Name   string
	Reveal bool
}

// Get prints one key, masked unless Reveal is set
func (c CredentialsCmd) Get(ctx context.Context, in GetCredentialInput) error {
	if err := checkCredentialName(in.Name); err != nil {
		return err
	}

	creds, err := c.store.Get(ctx, in.Name)
	if err != nil {
		return err
	}

	secret, ok := creds.Get(in.Name)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrMissingCredential, in.Name)
	}

	if in.Reveal {
		c.out.println(secret)
		return nil
	}
	c.out.info("%s: %s\n", in.Name, logging.MaskSecret(secret))
	return nil
}

// List prints every known key with its status
func (c CredentialsCmd) List(ctx context.Context) error {
	creds, err := c.store.Get(ctx, domain.KnownCredentials...)
	if err != nil {
		return err
	}

	rows := pterm.TableData{{"Name", "Used by", "Value"}}
	for _, name := range domain.KnownCredentials {
		secret, _ := creds.Get(name)
		rows = append(rows, []string{name, credentialUsage[name], logging.MaskSecret(secret)})
	}

	c.out.table(rows)
	return nil
}

var credentialUsage = map[string]string{
	domain.CredentialClassifier: "zero-shot classification, entity extraction",
	domain.CredentialVision:     "image labeling",
	domain.CredentialGenerative: "alternative suggestions",
}

func checkCredentialName(name string) error {
	if !slices.Contains(domain.KnownCredentials, name) {
		return fmt.Errorf("%w: unknown credential %q (known: %s)",
			domain.ErrInvalidRequest, name, strings.Join(domain.KnownCredentials, ", "))
	}
	return nil
}

// --- Cobra wiring ---

var credentialsCmd = &cobra.Command{
	Use:   "credentials",
	Short: "Manage API keys",
	Long:  "Store and inspect the API keys kept in the OS keychain",
}

var credentialsSetCmd = &cobra.Command{
	Use:   "set <name> <secret>",
	Short: "Store an API key",
	Args:  cobra.ExactArgs(2),
	RunE:  runCredentialsSet,
}

var credentialsGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Show an API key (masked)",
	Args:  cobra.ExactArgs(1),
	RunE:  runCredentialsGet,
}

var credentialsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known API keys",
	Args:  cobra.NoArgs,
	RunE:  runCredentialsList,
}

func init() {
	credentialsCmd.AddCommand(credentialsSetCmd)
	credentialsCmd.AddCommand(credentialsGetCmd)
	credentialsCmd.AddCommand(credentialsListCmd)

	credentialsGetCmd.Flags().Bool("reveal", false, "Print the full secret")
}

func credentialsCommand(cmd *cobra.Command) (CredentialsCmd, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return CredentialsCmd{}, err
	}
	return CredentialsCmd{store: newCredentialStore(cfg), out: newPrinter(cmd.OutOrStdout())}, nil
}

func runCredentialsSet(cmd *cobra.Command, args []string) error {
	c, err := credentialsCommand(cmd)
	if err != nil {
		return err
	}
	return c.Set(cmd.Context(), SetCredentialInput{Name: args[0], Secret: args[1]})
}

func runCredentialsGet(cmd *cobra.Command, args []string) error {
	c, err := credentialsCommand(cmd)
	if err != nil {
		return err
	}
	reveal, _ := cmd.Flags().GetBool("reveal")
	return c.Get(cmd.Context(), GetCredentialInput{Name: args[0], Reveal: reveal})
}

func runCredentialsList(cmd *cobra.Command, args []string) error {
	c, err := credentialsCommand(cmd)
	if err != nil {
		return err
	}
	return c.List(cmd.Context())
}
