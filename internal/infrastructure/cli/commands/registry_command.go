package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/doeshing/aurora-go/assets"
	"github.com/doeshing/aurora-go/internal/app"
	"github.com/doeshing/aurora-go/internal/domain"
	"github.com/doeshing/aurora-go/internal/infrastructure/registry"
)

// NewRegistryCommand creates the registry command with all subcommands
func NewRegistryCommand(build Builder) *cobra.Command {
	registryCmd := &cobra.Command{
		Use:   "registry",
		Short: "Manage the command registry",
	}

	registryCmd.AddCommand(
		newRegistryInitCommand(build),
		newRegistryCheckCommand(build),
		newRegistryCompileCommand(build),
		newRegistryListCommand(build),
	)

	return registryCmd
}

// newRegistryInitCommand creates the 'registry init' subcommand
func newRegistryInitCommand(build Builder) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write starter registry and phrase files",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := build(cmd.Context())
			if err != nil {
				return err
			}
			return initRegistryFiles(cmd.OutOrStdout(), container, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	return cmd
}

// newRegistryCheckCommand creates the 'registry check' subcommand
func newRegistryCheckCommand(build Builder) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the registry source without writing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := build(cmd.Context())
			if err != nil {
				return err
			}
			return checkRegistrySource(cmd.OutOrStdout(), container)
		},
	}
}

// newRegistryCompileCommand creates the 'registry compile' subcommand
func newRegistryCompileCommand(build Builder) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile the registry source to its JSON form",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := build(cmd.Context())
			if err != nil {
				return err
			}
			return compileRegistry(cmd.OutOrStdout(), container, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination path (default from config)")
	return cmd
}

// newRegistryListCommand creates the 'registry list' subcommand
func newRegistryListCommand(build Builder) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := build(cmd.Context())
			if err != nil {
				return err
			}
			return listRegistryEntries(cmd.OutOrStdout(), container)
		},
	}
}

// initRegistryFiles writes the embedded starter files next to the config
func initRegistryFiles(out io.Writer, container *app.Container, force bool) error {
	targets := []struct {
		path string
		data []byte
	}{
		{container.Config.Registry.SourceFile, assets.DefaultCommands},
		{container.Config.Classifier.PhrasesFile, assets.DefaultPhrases},
	}

	for _, target := range targets {
		if target.path == "" {
			return errors.New(ErrRegistrySourceUnset)
		}
		if _, err := os.Stat(target.path); err == nil && !force {
			fmt.Fprintf(out, "Exists, skipping: %s (use --force to overwrite)\n", target.path)
			continue
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(target.path), domain.DirectoryPermissions); err != nil {
			return err
		}
		if err := os.WriteFile(target.path, target.data, domain.SecureFilePermissions); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s\n", target.path)
	}

	return nil
}

// checkRegistrySource validates the declarative source and reports per-line errors
func checkRegistrySource(out io.Writer, container *app.Container) error {
	source := container.RegistrySource()
	if source == "" {
		return errors.New(ErrRegistrySourceUnset)
	}

	reg, err := registry.LoadFile(source)
	if err != nil {
		var lineErr *registry.LineError
		if errors.As(err, &lineErr) {
			return fmt.Errorf("%s: %w", source, lineErr)
		}
		return err
	}

	fmt.Fprintf(out, "Registry OK: %d commands in %s\n", reg.Len(), source)
	return nil
}

// compileRegistry validates the source and writes the compiled JSON form
func compileRegistry(out io.Writer, container *app.Container, output string) error {
	source := container.RegistrySource()
	if source == "" {
		return errors.New(ErrRegistrySourceUnset)
	}

	reg, err := registry.LoadFile(source)
	if err != nil {
		return err
	}

	dest := output
	if dest == "" {
		dest = container.Config.Registry.CompiledFile
	}
	if err := registry.Compile(reg, dest); err != nil {
		return err
	}

	fmt.Fprintf(out, "Compiled %d commands to %s\n", reg.Len(), dest)
	return nil
}

// listRegistryEntries prints every registered command
func listRegistryEntries(out io.Writer, container *app.Container) error {
	reg, err := container.LoadRegistry()
	if err != nil {
		return err
	}

	for _, id := range reg.IDs() {
		entry, _ := reg.Lookup(id)
		fmt.Fprintf(out, "%-24s %s\n", id, entry.Raw)
	}

	return nil
}
