package file

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/edisort/internal/core/domain"
	"github.com/custodia-labs/edisort/internal/core/ports/driven"
)

// Ensure PartnerFile implements the interface.
var _ driven.PartnerSource = (*PartnerFile)(nil)

// PartnerFile loads a trading partner table from a TOML or YAML file.
// The format is chosen by extension (.toml, .yaml, .yml).
//
//	[[partner]]
//	sender_id = "HUSQORNGBRG"
//	name      = "Husqvarna"
//	dialect   = "x12"
//	prefix    = "HUSQ"
//
//	[partner.disambiguation]
//	locator = "SF"
//	offset  = 1
//	types   = ["850", "860"]
//	codes   = [{ value = "THOMSON PLASTICS", code = "THM" }]
type PartnerFile struct {
	path string
}

// NewPartnerFile creates a partner source reading path.
func NewPartnerFile(path string) *PartnerFile {
	return &PartnerFile{path: path}
}

type partnerDocument struct {
	Partners []partnerRecord `toml:"partner" yaml:"partner"`
}

type partnerRecord struct {
	SenderID       string                `toml:"sender_id" yaml:"sender_id"`
	Name           string                `toml:"name" yaml:"name"`
	Dialect        string                `toml:"dialect" yaml:"dialect"`
	Prefix         string                `toml:"prefix" yaml:"prefix"`
	Disambiguation *disambiguationRecord `toml:"disambiguation" yaml:"disambiguation"`
}

type disambiguationRecord struct {
	Locator string       `toml:"locator" yaml:"locator"`
	Offset  int          `toml:"offset" yaml:"offset"`
	Types   []string     `toml:"types" yaml:"types"`
	Codes   []codeRecord `toml:"codes" yaml:"codes"`
}

type codeRecord struct {
	Value string `toml:"value" yaml:"value"`
	Code  string `toml:"code" yaml:"code"`
}

// Load reads and decodes the partner file, in file order.
// Unknown fields are rejected so a typo cannot silently drop a rule.
func (f *PartnerFile) Load() ([]domain.PartnerProfile, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read partner file: %w", err)
	}

	var doc partnerDocument
	switch ext := strings.ToLower(filepath.Ext(f.path)); ext {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidPartner, f.path, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidPartner, f.path, err)
		}
	default:
		return nil, fmt.Errorf("%w: partner file must be .toml, .yaml or .yml, got %q", domain.ErrInvalidInput, ext)
	}

	if len(doc.Partners) == 0 {
		return nil, fmt.Errorf("%w: %s defines no partners", domain.ErrInvalidPartner, f.path)
	}

	profiles := make([]domain.PartnerProfile, 0, len(doc.Partners))
	for i, rec := range doc.Partners {
		p, err := rec.profile()
		if err != nil {
			return nil, fmt.Errorf("partner %d: %w", i+1, err)
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (r partnerRecord) profile() (domain.PartnerProfile, error) {
	dialect, ok := domain.ParseDialect(r.Dialect)
	if !ok {
		return domain.PartnerProfile{}, fmt.Errorf("%w: %s: unknown dialect %q", domain.ErrInvalidPartner, r.SenderID, r.Dialect)
	}

	p := domain.PartnerProfile{
		SenderID: r.SenderID,
		Name:     r.Name,
		Dialect:  dialect,
		Prefix:   r.Prefix,
	}
	if d := r.Disambiguation; d != nil {
		rule := &domain.DisambiguationRule{
			Locator: d.Locator,
			Offset:  d.Offset,
			Types:   d.Types,
		}
		for _, c := range d.Codes {
			rule.Codes = append(rule.Codes, domain.CodeMapping{Value: c.Value, Code: c.Code})
		}
		p.Disambiguation = rule
	}
	return p, nil
}
