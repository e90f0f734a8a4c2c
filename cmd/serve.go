package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hillstub/yeastriction/config"
	"github.com/hillstub/yeastriction/internal/genome"
	"github.com/hillstub/yeastriction/internal/server"
)

// serveCmd runs the web application.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API for interactive target searches.

Strain reference data is loaded from the genomes directory at startup.
Genome import over HTTP stays disabled unless YR_IMPORT_ALLOW is set.`,
	Run: runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	c, err := config.New()
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}

	reg, err := genome.LoadDir(c.Genome.Dir)
	if err != nil {
		log.Fatalf("failed to load genomes: %v", err)
	}
	log.Printf("loaded %d strain(s) from %s", len(reg.Strains()), c.Genome.Dir)

	srv := server.New(c, reg, newPipeline(c), newDesigner(c))
	if err := srv.Router().Run(fmt.Sprintf(":%d", c.Server.Port)); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func init() {
	RootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8080, "port to listen on")
	must(viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port")))
}
