package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/shoplite/storeassist/internal/domain/document"
	"github.com/shoplite/storeassist/internal/domain/language"
)

// groundTruthEntry mirrors one record of the ground-truth JSON file.
type groundTruthEntry struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	AnswerAr string `json:"answer_ar"`
}

// LoadFile reads documents from a ground-truth JSON file.
// Records without an id or usable answer are skipped.
func LoadFile(path string) ([]document.Document, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read knowledge file %s: %w", path, err)
	}

	var entries []groundTruthEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse knowledge file %s: %w", path, err)
	}

	docs := make([]document.Document, 0, len(entries))
	for _, e := range entries {
		title := e.Question
		if title == "" {
			title = e.ID
		}
		doc, err := document.New(e.ID, title, map[language.Tag]string{
			language.English: e.Answer,
			language.Arabic:  e.AnswerAr,
		})
		if err != nil {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// LoadOrSeed loads documents from path, falling back to the built-in seed
// knowledge base when path is empty, unreadable, or yields no documents.
func LoadOrSeed(path string, logger *zap.Logger) []document.Document {
	if path == "" {
		logger.Info("No knowledge file configured, using seed knowledge base")
		return Seed()
	}

	docs, err := LoadFile(path)
	if err != nil {
		logger.Warn("Failed to load knowledge file, using seed knowledge base",
			zap.String("path", path), zap.Error(err))
		return Seed()
	}
	if len(docs) == 0 {
		logger.Warn("Knowledge file contains no usable documents, using seed knowledge base",
			zap.String("path", path))
		return Seed()
	}

	logger.Info("Loaded knowledge base", zap.String("path", path), zap.Int("documents", len(docs)))
	return docs
}

// Seed returns the built-in store-policy knowledge base.
func Seed() []document.Document {
	return []document.Document{
		document.Reconstruct("Policy3.1", "Returns / الإرجاع", map[language.Tag]string{
			language.English: "Items may be returned within 30 days with receipt. Refund in 5–7 business days.",
			language.Arabic:  "الإرجاع خلال 30 يوماً مع إيصال الشراء. تُعاد الأموال خلال 5–7 أيام عمل.",
		}),
		document.Reconstruct("Shipping2.1", "Shipping / الشحن", map[language.Tag]string{
			language.English: "Standard (5–7d), Express (2–3d), Overnight. Free shipping > $50.",
			language.Arabic:  "عادي 5–7 أيام، سريع 2–3 أيام، مستعجل. شحن مجاني للطلبات فوق 50$.",
		}),
		document.Reconstruct("Order1.1", "Order Tracking / تتبّع الطلب", map[language.Tag]string{
			language.English: "Statuses: Pending → Processing → Shipped → Delivered. Use order ID.",
			language.Arabic:  "حالات الطلب: Pending → Processing → Shipped → Delivered. استخدم رقم الطلب.",
		}),
	}
}
