package store

import (
	"os"
	"strings"

	"go.uber.org/zap"

	"GoPolicyRAG/app/utils"
)

// Store is the ordered document collection the index is built against. It is
// read-only after Load; Records[i] and Texts[i] stay paired for the process
// lifetime.
type Store struct {
	Records []Record
	Texts   []string
}

// Load reads the metadata list and resolves every record to its text body.
// A record whose source cannot be found keeps an empty body and is logged as
// a data-quality warning; it is never dropped, because dropping a record
// would shift every position after it.
func Load(metadataPath string, resolver *Resolver, log *zap.Logger) (*Store, error) {
	records, err := LoadMetadata(metadataPath)
	if err != nil {
		return nil, err
	}

	s := &Store{
		Records: records,
		Texts:   make([]string, len(records)),
	}
	for i, record := range records {
		path, ok := resolver.Resolve(record.Path)
		if !ok {
			log.Warn("source file not found, record keeps empty text",
				zap.Int("record", i), zap.String("path", record.Path))
			continue
		}
		text, err := readSource(path)
		if err != nil {
			log.Warn("failed to read source file",
				zap.Int("record", i), zap.String("path", path), zap.Error(err))
			continue
		}
		s.Texts[i] = text
	}

	log.Info("document store loaded", zap.Int("records", len(records)))
	return s, nil
}

func (s *Store) Len() int {
	return len(s.Records)
}

func (s *Store) Text(i int) string {
	if i < 0 || i >= len(s.Texts) {
		return ""
	}
	return s.Texts[i]
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text := string(data)

	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".html") || strings.HasSuffix(lower, ".htm") {
		stripped, err := utils.HTMLText(text)
		if err == nil {
			return stripped, nil
		}
	}
	return text, nil
}
