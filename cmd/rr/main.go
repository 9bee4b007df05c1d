package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/ledgelabs/restrec"
	"github.com/ledgelabs/restrec/internal/config"
	"github.com/ledgelabs/restrec/internal/ui"
	"github.com/ledgelabs/restrec/rest"
	"github.com/spf13/cobra"
)

var (
	serverFlag string
	tokenFlag  string
	jsonOutput bool
	noColor    bool
	keyField   string
	dateFields []string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "rr",
	Short: "CLI client for REST record resources",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if noColor || !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
		return nil
	},
}

// resolvedServer returns the base API URL: --server flag, then RESTREC_SERVER,
// then the active remote.
func resolvedServer() string {
	if serverFlag != "" {
		return serverFlag
	}
	if cfg != nil && cfg.Server != "" {
		return cfg.Server
	}
	return activeRemoteURL()
}

// resolvedToken returns the bearer token: --token flag, then RESTREC_TOKEN,
// then the active remote.
func resolvedToken() string {
	if tokenFlag != "" {
		return tokenFlag
	}
	if cfg != nil && cfg.Token != "" {
		return cfg.Token
	}
	return activeRemoteToken()
}

// resolvedNATSURL returns the event bus URL: RESTREC_NATS_URL, then the
// active remote.
func resolvedNATSURL() string {
	if cfg != nil && cfg.NATSURL != "" {
		return cfg.NATSURL
	}
	return activeRemoteNATSURL()
}

// bindType defines the named resource against the resolved server and returns
// a bound type. Each call uses a fresh registry, so a resource can be bound
// more than once per process.
func bindType(resource string) (*restrec.Type, error) {
	return bindTypeWith(resource, nil)
}

// bindTypeWith additionally defines each named relation as a resource of the
// same name on the same server, so loaded records hydrate into bound types.
func bindTypeWith(resource string, relations []string) (*restrec.Type, error) {
	base := resolvedServer()
	if base == "" {
		return nil, fmt.Errorf("no server configured; pass --server, set RESTREC_SERVER, or run 'rr remote use <name>'")
	}

	conn, err := newConn(base, resource)
	if err != nil {
		return nil, err
	}

	rels := make(map[string]string, len(relations))
	for _, name := range relations {
		rels[name] = name
	}

	reg := restrec.NewRegistry()
	typ, err := reg.Define(restrec.Definition{
		Name:      resource,
		Key:       keyField,
		Dates:     dateFields,
		Relations: rels,
	})
	if err != nil {
		return nil, err
	}
	typ.Bind(conn)

	for _, name := range relations {
		if _, err := reg.Resolve(name); err == nil {
			continue
		}
		relConn, err := newConn(base, name)
		if err != nil {
			return nil, err
		}
		target, err := reg.Define(restrec.Definition{Name: name, Key: keyField, Dates: dateFields})
		if err != nil {
			return nil, err
		}
		target.Bind(relConn)
	}
	return typ, nil
}

func newConn(base, resource string) (*rest.Connection, error) {
	var opts []rest.Option
	if cfg != nil && cfg.Timeout > 0 {
		opts = append(opts, rest.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}
	if token := resolvedToken(); token != "" {
		opts = append(opts, rest.WithToken(token))
	}
	conn, err := rest.New(strings.TrimRight(base, "/")+"/"+resource, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", base, err)
	}
	return conn, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverFlag, "server", "", "server base URL (default: RESTREC_SERVER or active remote)")
	rootCmd.PersistentFlags().StringVar(&tokenFlag, "token", "", "bearer token (default: RESTREC_TOKEN or active remote)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&keyField, "key", "id", "primary key attribute name")
	rootCmd.PersistentFlags().StringSliceVar(&dateFields, "dates", []string{"created_at", "updated_at"}, "attributes cast to timestamps (repeatable)")

	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
