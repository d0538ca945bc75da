// Package locale loads YAML message catalogs and resolves translation keys
// for the render pipeline. Catalog files are named after their locale
// (ko.yaml, en.yaml) and nested keys are flattened with dots.
package locale
