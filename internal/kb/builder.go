package kb

import (
	"fmt"
	"sort"
	"strings"
)

// Document is one unit of retrievable knowledge: the text that gets
// embedded and returned verbatim, plus display/filter metadata.
type Document struct {
	ID       string
	Text     string
	Metadata map[string]string
}

// Source names. Each source owns a disjoint id prefix, so documents
// from different sources can never collide.
const (
	SourceServices = "services"
	SourceFAQ      = "faq"
	SourcePolicies = "policies"
	SourceHours    = "hours"
	SourceStaff    = "staff"
)

// BuildServices constructs service documents. The row's description is
// the primary text; rows without one fall back to a template over
// name, price_rm, duration_min and notes. When an alias table is
// given, aliases are merged by service_id and appended as an
// "Also known as" clause. All original row fields become metadata.
func BuildServices(rows []Row, aliasRows []Row) ([]Document, error) {
	aliases := aliasMap(aliasRows)

	docs := make([]Document, 0, len(rows))
	for i, row := range rows {
		text := row["description"]
		if text == "" {
			name, err := row.require(SourceServices, "name", i)
			if err != nil {
				return nil, err
			}
			price, err := row.require(SourceServices, "price_rm", i)
			if err != nil {
				return nil, err
			}
			duration, err := row.require(SourceServices, "duration_min", i)
			if err != nil {
				return nil, err
			}
			notes, err := row.require(SourceServices, "notes", i)
			if err != nil {
				return nil, err
			}
			text = fmt.Sprintf("%s service. Price RM%s, duration %s minutes. %s", name, price, duration, notes)
		}

		if names := aliases[row["service_id"]]; len(names) > 0 {
			text += "\nAlso known as: " + strings.Join(names, ", ")
		}

		docs = append(docs, Document{
			ID:       fmt.Sprintf("svc_%d", i),
			Text:     "[SERVICE]\n" + text,
			Metadata: row,
		})
	}
	return docs, nil
}

// aliasMap groups deduplicated alias names by service_id. Duplicate
// aliases across the alias columns of one service collapse to a single
// entry; the result is sorted for deterministic output.
func aliasMap(rows []Row) map[string][]string {
	sets := make(map[string]map[string]struct{})
	for _, row := range rows {
		sid := row["service_id"]
		if sid == "" {
			continue
		}
		if sets[sid] == nil {
			sets[sid] = make(map[string]struct{})
		}
		for _, col := range []string{"alias_1", "alias_2"} {
			if a := row[col]; a != "" {
				sets[sid][a] = struct{}{}
			}
		}
	}

	out := make(map[string][]string, len(sets))
	for sid, set := range sets {
		names := make([]string, 0, len(set))
		for a := range set {
			names = append(names, a)
		}
		sort.Strings(names)
		out[sid] = names
	}
	return out
}

// BuildFAQ constructs FAQ documents. The id is the FAQ's own stable
// key, never synthesized, and metadata is restricted to type, faq_id
// and category; extra columns are not copied through.
func BuildFAQ(rows []Row) ([]Document, error) {
	docs := make([]Document, 0, len(rows))
	for i, row := range rows {
		faqID, err := row.require(SourceFAQ, "faq_id", i)
		if err != nil {
			return nil, err
		}
		if faqID == "" {
			return nil, fmt.Errorf("faq row %d: empty faq_id", i)
		}
		question, err := row.require(SourceFAQ, "question", i)
		if err != nil {
			return nil, err
		}
		answer, err := row.require(SourceFAQ, "answer", i)
		if err != nil {
			return nil, err
		}

		docs = append(docs, Document{
			ID:   faqID,
			Text: fmt.Sprintf("[FAQ]\nQ: %s\nA: %s", question, answer),
			Metadata: map[string]string{
				"type":     "faq",
				"faq_id":   faqID,
				"category": row["category"],
			},
		})
	}
	return docs, nil
}

// BuildPolicies constructs policy documents from title, text, category
// and scope on separate lines. Metadata is the full row.
func BuildPolicies(rows []Row) ([]Document, error) {
	docs := make([]Document, 0, len(rows))
	for i, row := range rows {
		title, err := row.require(SourcePolicies, "title", i)
		if err != nil {
			return nil, err
		}
		body, err := row.require(SourcePolicies, "text", i)
		if err != nil {
			return nil, err
		}
		category, err := row.require(SourcePolicies, "category", i)
		if err != nil {
			return nil, err
		}
		scope, err := row.require(SourcePolicies, "scope", i)
		if err != nil {
			return nil, err
		}

		docs = append(docs, Document{
			ID:       fmt.Sprintf("policy_%d", i),
			Text:     fmt.Sprintf("[POLICY]\n%s\n%s\nCategory: %s\nScope: %s", title, body, category, scope),
			Metadata: row,
		})
	}
	return docs, nil
}

// BuildGeneric constructs documents for schemaless sources (hours,
// staff): every column is rendered as a "key: value" line under a
// bracketed source tag. Missing or empty columns are rendered as-is,
// an intentional asymmetry from the structured sources.
func BuildGeneric(source string, rows []Row) []Document {
	docs := make([]Document, 0, len(rows))
	for i, row := range rows {
		keys := make([]string, 0, len(row))
		for k := range row {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		lines := make([]string, 0, len(keys)+1)
		lines = append(lines, "["+strings.ToUpper(source)+"]")
		for _, k := range keys {
			lines = append(lines, k+": "+row[k])
		}

		docs = append(docs, Document{
			ID:       fmt.Sprintf("%s_%d", source, i),
			Text:     strings.Join(lines, "\n"),
			Metadata: row,
		})
	}
	return docs
}
