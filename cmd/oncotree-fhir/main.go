package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/clinterm/oncotree-fhir/convert"
	"github.com/clinterm/oncotree-fhir/oncotree"
)

// Flags is the full configuration surface of the tool. Defaults can be
// overridden through ONCOTREE_* environment variables, optionally loaded from
// a .env file.
type Flags struct {
	URL       string
	Version   string
	Output    string
	Canonical string
	ValueSet  string
	WriteTSV  bool
	TSVOutput string
	KeepGoing bool
	DumpRaw   bool
	Verbose   bool
}

func defaultFlags() Flags {
	return Flags{
		URL:       envOr("ONCOTREE_URL", "http://oncotree.mskcc.org/api"),
		Version:   envOr("ONCOTREE_VERSION", "oncotree_latest_stable"),
		Output:    envOr("ONCOTREE_OUTPUT", "./$version.json"),
		Canonical: envOr("ONCOTREE_CANONICAL", "http://oncotree.mskcc.org/fhir/CodeSystem"),
		ValueSet:  envOr("ONCOTREE_VALUESET", "http://oncotree.mskcc.org/fhir/ValueSet"),
		TSVOutput: envOr("ONCOTREE_TSV_OUTPUT", "./$version.tsv"),
	}
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func registerFlags(set *pflag.FlagSet, f *Flags) {
	set.StringVarP(&f.URL, "url", "u", f.URL, "endpoint for the Oncotree API")
	set.StringVarP(&f.Version, "version", "v", f.Version, "version of Oncotree to download")
	set.StringVarP(&f.Output, "output", "o", f.Output, "output file in JSON format, $version is replaced with the version string")
	set.StringVar(&f.Canonical, "canonical", f.Canonical, "canonical URL of the CodeSystem to generate")
	set.StringVar(&f.ValueSet, "valueset", f.ValueSet, "canonical URL of the implicit ValueSet with all codes")
	set.BoolVar(&f.WriteTSV, "write-tsv", f.WriteTSV, "also write the CodeSystem as a TSV file suitable for CSIRO's Snapper tool")
	set.StringVar(&f.TSVOutput, "tsv-output", f.TSVOutput, "output file in TSV format (if --write-tsv given), $version is replaced with the version string")
	set.BoolVar(&f.KeepGoing, "keep-going", f.KeepGoing, "continue converting remaining versions when one version fails (convert-all)")
	set.BoolVar(&f.DumpRaw, "dump-raw", f.DumpRaw, "dump the raw tumorTypes payload to oncotree.tmp.json")
	set.BoolVar(&f.Verbose, "verbose", f.Verbose, "enable debug logging")
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) { w.Out = os.Stderr })).
		Level(level).
		With().Timestamp().Logger()
}

// echoConfig prints the resolved configuration before any work starts.
func echoConfig(log zerolog.Logger, f Flags) {
	log.Info().
		Str("url", f.URL).
		Str("version", f.Version).
		Str("output", f.Output).
		Str("canonical", f.Canonical).
		Str("valueset", f.ValueSet).
		Bool("write-tsv", f.WriteTSV).
		Str("tsv-output", f.TSVOutput).
		Msg("resolved configuration")
}

// setup fetches the catalog snapshot and wires the conversion service to it.
func setup(f Flags, log zerolog.Logger) (*oncotree.VersionCatalog, *convert.Service, error) {
	client := oncotree.NewClient(f.URL, log)
	catalog, err := oncotree.FetchCatalog(client)
	if err != nil {
		return nil, nil, err
	}

	opts := convert.Options{
		Output:    f.Output,
		TSVOutput: f.TSVOutput,
		WriteTSV:  f.WriteTSV,
		KeepGoing: f.KeepGoing,
	}
	if f.DumpRaw {
		opts.RawDumpPath = "oncotree.tmp.json"
	}

	builder := convert.NewDocumentBuilder(client, catalog, convert.NewConfig(f.Canonical, f.ValueSet), log)
	return catalog, convert.NewService(client, catalog, builder, opts, log), nil
}

func versionsCommand(f *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "versions",
		Short: "list the versions the endpoint offers",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(f.Verbose)
			_, service, err := setup(*f, log)
			if err != nil {
				return err
			}
			service.ListVersions(cmd.OutOrStdout())
			return nil
		},
	}
}

func convertCommand(f *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "convert",
		Short: "convert one version of Oncotree to a FHIR CodeSystem",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(f.Verbose)
			echoConfig(log, *f)
			catalog, service, err := setup(*f, log)
			if err != nil {
				return err
			}
			if !catalog.IsKnown(f.Version) {
				return fmt.Errorf("version %q is not known to the endpoint %s, use the 'versions' command to list the available versions",
					f.Version, f.URL)
			}
			_, err = service.ConvertOne(f.Version)
			return err
		},
	}
}

func convertAllCommand(f *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "convert-all",
		Short: "convert every version the endpoint offers",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Caught before any network call.
			if !strings.Contains(f.Output, "$version") {
				return convert.ErrNoPlaceholder
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(f.Verbose)
			echoConfig(log, *f)
			_, service, err := setup(*f, log)
			if err != nil {
				return err
			}
			results, err := service.ConvertAll()
			for _, r := range results {
				if r.Err != nil {
					log.Error().Err(r.Err).Str("version", r.Version).Msg("version failed")
				}
			}
			return err
		},
	}
}

func rootCommand() *cobra.Command {
	flags := defaultFlags()
	root := &cobra.Command{
		Use:           "oncotree-fhir",
		Short:         "convert Oncotree to HL7 FHIR CodeSystem resources",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	registerFlags(root.PersistentFlags(), &flags)
	root.AddCommand(versionsCommand(&flags), convertCommand(&flags), convertAllCommand(&flags))
	return root
}

func main() {
	// A .env file is optional; flags and built-in defaults cover everything.
	_ = godotenv.Load()

	if err := rootCommand().Execute(); err != nil {
		log := newLogger(false)
		log.Fatal().Err(err).Msg("oncotree-fhir failed")
	}
}
