package convert

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/clinterm/oncotree-fhir/oncotree"
	"github.com/clinterm/oncotree-fhir/util"
)

// ErrNoPlaceholder marks a convert-all invocation whose output template has
// no "$version" placeholder; every version would overwrite the same file.
// Detected before any conversion work starts.
var ErrNoPlaceholder = errors.New("output template must contain a '$version' placeholder")

// Options steers the conversion service.
type Options struct {
	// Output is the JSON output path template; "$version" is replaced with
	// the resolved version label.
	Output string
	// TSVOutput is the TSV output path template, used when WriteTSV is set.
	TSVOutput string
	// WriteTSV enables the flat tab-separated export next to the document.
	WriteTSV bool
	// KeepGoing makes convert-all carry on past per-version failures instead
	// of aborting on the first one.
	KeepGoing bool
	// RawDumpPath, when non-empty, receives the raw concept payload of every
	// converted version for debugging.
	RawDumpPath string
}

// VersionResult is the outcome of converting one version.
type VersionResult struct {
	Version  string
	JSONPath string
	TSVPath  string
	Err      error
}

// Service drives the three supported operations against one catalog
// snapshot.
type Service struct {
	client  *oncotree.Client
	catalog *oncotree.VersionCatalog
	builder *DocumentBuilder
	opts    Options
	log     zerolog.Logger
}

// NewService creates the conversion service.
func NewService(client *oncotree.Client, catalog *oncotree.VersionCatalog, builder *DocumentBuilder, opts Options, log zerolog.Logger) *Service {
	return &Service{
		client:  client,
		catalog: catalog,
		builder: builder,
		opts:    opts,
		log:     log,
	}
}

// ListVersions renders the catalog as a labeled tree, visible versions in one
// branch and hidden ones in the other.
func (s *Service) ListVersions(w io.Writer) {
	root := util.NewTreeNode(fmt.Sprintf("available versions from %s/versions", s.client.BaseURL))
	root.Add(versionBranch("current/visible versions", s.catalog.Visible()))
	root.Add(versionBranch("invisible versions", s.catalog.Invisible()))
	util.PrintTree(w, root)
}

func versionBranch(label string, versions []oncotree.Version) *util.TreeNode {
	branch := util.NewTreeNode(label)
	for _, v := range versions {
		branch.Add(util.NewTreeNode(v.APIIdentifier,
			util.NewTreeNode("released "+v.ReleaseDate),
			util.NewTreeNode(v.Description),
		))
	}
	return branch
}

// ConvertOne builds the document for one version and writes it, plus the TSV
// export when enabled.
func (s *Service) ConvertOne(versionID string) (VersionResult, error) {
	result := VersionResult{Version: versionID}

	codeSystem, raw, err := s.builder.Build(versionID)
	if err != nil {
		result.Err = err
		return result, err
	}

	if s.opts.RawDumpPath != "" {
		if err := os.WriteFile(s.opts.RawDumpPath, raw, 0o644); err != nil {
			result.Err = err
			return result, err
		}
	}

	label := *codeSystem.Version

	document, err := json.MarshalIndent(codeSystem, "", "  ")
	if err != nil {
		result.Err = err
		return result, err
	}
	result.JSONPath = util.ExpandPath(s.opts.Output, label)
	if err := os.WriteFile(result.JSONPath, document, 0o644); err != nil {
		result.Err = err
		return result, err
	}
	s.log.Info().Str("path", result.JSONPath).Msg("wrote CodeSystem")

	if s.opts.WriteTSV {
		result.TSVPath = util.ExpandPath(s.opts.TSVOutput, label)
		file, err := os.Create(result.TSVPath)
		if err != nil {
			result.Err = err
			return result, err
		}
		err = WriteTable(file, ExportTable(codeSystem))
		if cerr := file.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			result.Err = err
			return result, err
		}
		s.log.Info().Str("path", result.TSVPath).Msg("wrote TSV")
	}

	return result, nil
}

// ConvertAll converts every catalog entry in catalog order (newest release
// first). By default the first failure aborts the run; with KeepGoing the
// remaining versions are still converted and every outcome is reported in the
// result list.
func (s *Service) ConvertAll() ([]VersionResult, error) {
	if !strings.Contains(s.opts.Output, "$version") {
		return nil, ErrNoPlaceholder
	}

	var results []VersionResult
	var firstErr error
	for _, v := range s.catalog.Versions() {
		s.log.Info().Str("version", v.APIIdentifier).Msg("converting version")
		result, err := s.ConvertOne(v.APIIdentifier)
		results = append(results, result)
		if err != nil {
			if !s.opts.KeepGoing {
				return results, err
			}
			s.log.Error().Err(err).Str("version", v.APIIdentifier).Msg("conversion failed, continuing")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return results, firstErr
}
