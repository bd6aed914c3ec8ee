package assessment

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/manav03panchal/studiodesk/internal/errors"
	"github.com/manav03panchal/studiodesk/internal/model"
)

// Export formats.
const (
	FormatText = "text"
	FormatYAML = "yaml"
)

// exportDoc is the YAML shape of an exported assessment.
type exportDoc struct {
	ID     int           `yaml:"id"`
	Name   string        `yaml:"nome"`
	Date   string        `yaml:"data"`
	Photos []model.Photo `yaml:"fotos"`
}

// Text renders the printable summary of an assessment.
func Text(a model.Assessment) string {
	var sb strings.Builder
	sb.WriteString("Avaliação Postural\n")
	fmt.Fprintf(&sb, "Nome: %s\n", a.Name)
	fmt.Fprintf(&sb, "Data: %s\n", a.DateString())
	fmt.Fprintf(&sb, "Fotos: %d imagens\n", len(a.Photos))
	return sb.String()
}

// Encode renders a in the given format.
func Encode(a model.Assessment, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", FormatText, "txt":
		return []byte(Text(a)), nil
	case FormatYAML, "yml":
		photos := a.Photos
		if photos == nil {
			photos = []model.Photo{}
		}
		return yaml.Marshal(exportDoc{ID: a.ID, Name: a.Name, Date: a.DateString(), Photos: photos})
	default:
		return nil, errors.NewUserErrorWithField("format", format,
			"Unknown export format", "Use text or yaml")
	}
}

// FileName is the default export file name for an assessment.
func FileName(id int, format string) string {
	ext := "txt"
	if f := strings.ToLower(format); f == FormatYAML || f == "yml" {
		ext = "yaml"
	}
	return fmt.Sprintf("avaliacao_%d.%s", id, ext)
}

// Export renders the assessment with the given id.
func (s *Service) Export(ctx context.Context, id int, format string) ([]byte, error) {
	a, err := s.Show(ctx, id)
	if err != nil {
		return nil, err
	}
	return Encode(a, format)
}
