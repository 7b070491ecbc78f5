// Package kb turns raw salon knowledge sources (CSV rows) into
// retrievable documents: a natural-language text plus a metadata map,
// built with a fixed per-source template and id scheme.
package kb
