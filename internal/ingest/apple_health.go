package ingest

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/terraincognita07/ovumcal/internal/models"
)

const (
	appleFlowRecordType  = "HKCategoryTypeIdentifierMenstrualFlow"
	appleFlowValuePrefix = "HKCategoryValueMenstrualFlow"
)

// ReadAppleHealth streams an Apple Health export.xml and keeps only the
// menstrual flow records. The export is usually far too large to load whole.
func ReadAppleHealth(path string, reader io.Reader) ([]models.Observation, []error, error) {
	decoder := xml.NewDecoder(reader)
	observations := make([]models.Observation, 0)
	var rejected []error

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("decode %s: %w", path, err)
		}

		element, ok := token.(xml.StartElement)
		if !ok || element.Name.Local != "Record" {
			continue
		}
		if attr(element, "type") != appleFlowRecordType {
			continue
		}

		line, _ := decoder.InputPos()
		source := fmt.Sprintf("%s:%d", path, line)

		rawDate := attr(element, "startDate")
		day, ok := ParseDay(rawDate)
		if !ok {
			rejected = append(rejected, &RecordError{Source: source, Reason: fmt.Sprintf("invalid startDate %q", rawDate)})
			continue
		}

		rawValue := attr(element, "value")
		intensity, ok := ParseFlow(rawValue)
		if !ok {
			rejected = append(rejected, &RecordError{Source: source, Reason: fmt.Sprintf("unknown flow value %q", rawValue)})
			continue
		}

		observations = append(observations, models.Observation{Date: day, Intensity: intensity, Source: source})
	}

	return observations, rejected, nil
}

func attr(element xml.StartElement, name string) string {
	for _, attribute := range element.Attr {
		if attribute.Name.Local == name {
			return attribute.Value
		}
	}
	return ""
}
