package cmd

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/vagas/internal/components"
	"github.com/spigell/vagas/internal/portal"
	"github.com/spigell/vagas/internal/render"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the listings page as static HTML with the shared header and footer",
	Run: func(cmd *cobra.Command, _ []string) {
		export(cmd)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("out", "o", "-", "output file, - for stdout")
	exportCmd.Flags().String("title", render.DefaultPageTitle, "page title")
}

func export(cmd *cobra.Command) {
	ctx := context.Background()

	s := newSession(ctx)
	defer s.Close()

	state, err := loadPortal(ctx, s, portal.LogNotices{Logger: s.logger})
	if err != nil {
		s.logger.Fatal("loading listings", zap.Error(err))
	}

	title, _ := cmd.Flags().GetString("title")
	view := state.View()

	var page bytes.Buffer
	err = render.Page(&page, render.PageData{
		Title:    title,
		Profile:  view.Profile,
		Listings: view.Listings,
	})
	if err != nil {
		s.logger.Fatal("rendering the page", zap.Error(err))
	}

	loader := components.NewLoader(fetcher(s.config.Components), s.logger)
	out, loaded, err := loader.Load(ctx, page.Bytes(), components.DefaultSpecs)
	if err != nil {
		s.logger.Fatal("loading components", zap.Error(err))
	}
	<-loader.Ready()
	s.logger.Debug("components ready", zap.Any("loaded", loaded))

	path, _ := cmd.Flags().GetString("out")
	if path == "-" {
		if _, err := os.Stdout.Write(out); err != nil {
			s.logger.Fatal("writing the page", zap.Error(err))
		}
		return
	}

	if err := os.WriteFile(path, out, 0o644); err != nil {
		s.logger.Fatal("writing the page", zap.Error(err), zap.String("path", path))
	}
	s.logger.Info("page exported", zap.String("path", path), zap.Int("listings", view.Count))
}

func fetcher(cfg *ComponentsConfig) components.Fetcher {
	if cfg.BaseURL != "" {
		return components.HTTPFetcher{
			BaseURL:  cfg.BaseURL,
			PagePath: cfg.PagePath,
			Client:   &http.Client{Timeout: 10 * time.Second},
		}
	}
	return components.DirFetcher{Dir: cfg.Dir}
}
