package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/studiodesk/internal/auth"
	"github.com/manav03panchal/studiodesk/internal/output"
)

// accessCmd groups access key helpers.
var accessCmd = &cobra.Command{
	Use:         "access",
	Short:       "Access key helpers",
	Annotations: noRuntime(),
}

// accessHashCmd prints a bcrypt hash for access.key_hash.
var accessHashCmd = &cobra.Command{
	Use:   "hash",
	Short: "Hash an access key for the config file",
	Long: `Read a key and print its bcrypt hash. Put the hash in access.key_hash
so the plain key does not have to be stored.

Examples:
  studiodesk access hash
  echo -n 'segredo' | studiodesk access hash`,
	Args:        usageArgs(cobra.NoArgs),
	Annotations: noRuntime(),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := auth.Prompt(os.Stdin, os.Stderr, "Key to hash: ")
		if err != nil {
			return err
		}
		hash, err := auth.HashKey(key)
		if err != nil {
			return err
		}

		if formatter.Format == output.FormatJSON {
			return formatter.JSON(map[string]string{"key_hash": hash})
		}
		formatter.Println(hash)
		return nil
	},
}

func init() {
	accessCmd.AddCommand(accessHashCmd)
	rootCmd.AddCommand(accessCmd)
}
