package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

var file string

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load catalogue data from JSON files",
	Long: `Load ingredients or tags. Entries that already exist are skipped.

Examples:
  foodgramctl load ingredients --file data/ingredients.json
  foodgramctl load tags --file data/tags.json`,
}

var loadIngredientsCmd = &cobra.Command{
	Use:   "ingredients",
	Short: `Load [{"name", "measurement_unit"}] entries`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			return loadIngredients(cmd.Context(), db, file, cmd.OutOrStdout())
		})
	},
}

var loadTagsCmd = &cobra.Command{
	Use:   "tags",
	Short: `Load [{"name", "color", "slug"}] entries`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			return loadTags(cmd.Context(), db, file, cmd.OutOrStdout())
		})
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
	loadCmd.AddCommand(loadIngredientsCmd, loadTagsCmd)

	loadCmd.PersistentFlags().StringVarP(&file, "file", "f", "", "JSON file to load")
	_ = loadCmd.MarkPersistentFlagRequired("file")
}

func withDB(fn func(db *gorm.DB) error) error {
	dsn, err := resolveDSN()
	if err != nil {
		return err
	}
	db, err := database.Open(dsn, nil)
	if err != nil {
		return err
	}
	defer database.Close(db)
	return fn(db)
}

func loadIngredients(ctx context.Context, db *gorm.DB, path string, out io.Writer) error {
	var items []types.IngredientInput
	if err := readJSON(path, &items); err != nil {
		return err
	}
	created, skipped, err := service.NewIngredientService(db).Import(ctx, items)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "ingredients: %d created, %d skipped\n", created, skipped)
	return nil
}

func loadTags(ctx context.Context, db *gorm.DB, path string, out io.Writer) error {
	var items []types.TagInput
	if err := readJSON(path, &items); err != nil {
		return err
	}
	created, skipped, err := service.NewTagService(db).Import(ctx, items)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "tags: %d created, %d skipped\n", created, skipped)
	return nil
}

func readJSON(path string, dst interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(dst); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
