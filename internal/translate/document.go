package translate

import (
	"context"
	"fmt"

	"github.com/bindery/bindery/internal/bookdoc"
)

// DefaultBatchSize is how many units go into one translator request.
const DefaultBatchSize = 20

// TranslateDocument fills in AzureTranslation on the document's title and
// paragraph units, batch by batch. Units that already carry a translation
// are skipped, so an interrupted run can be resumed by calling again.
// onProgress, when non-nil, is invoked after each batch with the number of
// units translated so far and the total.
func (c *Client) TranslateDocument(ctx context.Context, doc *bookdoc.Document, from, to string, batchSize int, onProgress func(done, total int)) error {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	var pending []*bookdoc.Unit
	for _, u := range doc.AllUnits() {
		if u.Type != bookdoc.UnitTitle && u.Type != bookdoc.UnitParagraph {
			continue
		}
		if isBlank(u.SourceText) || u.AzureTranslation != "" {
			continue
		}
		pending = append(pending, u)
	}

	total := len(pending)
	for done := 0; done < total; {
		end := done + batchSize
		if end > total {
			end = total
		}
		batch := pending[done:end]

		texts := make([]string, len(batch))
		for i, u := range batch {
			texts[i] = u.SourceText
		}

		translations, err := c.Translate(ctx, texts, from, to)
		if err != nil {
			return fmt.Errorf("translate batch at unit %d: %w", done, err)
		}
		for i, u := range batch {
			u.AzureTranslation = translations[i]
		}

		done = end
		if onProgress != nil {
			onProgress(done, total)
		}
	}
	return nil
}
