package kinds

import "github.com/de-tools/garage-docs/pkg/models/domain"

func Invoice() domain.Kind {
	return domain.Kind{
		Name:        "invoice",
		Title:       "Invoice",
		NumberField: "invoice_number",
		Required: []string{
			"invoice_number", "garage", "client", "vehicle",
			"defect_description", "items", "totals", "terms",
		},
		Template:      "invoice_template_final.docx",
		OutputPrefix:  "invoice",
		Totals:        domain.TotalsInvoice,
		OnUnavailable: domain.PolicyDegrade,
	}
}

func Quote() domain.Kind {
	return domain.Kind{
		Name:        "quote",
		Title:       "Quotation",
		NumberField: "quote_number",
		Required: []string{
			"quote_number", "garage", "client", "vehicle",
			"defect", "items", "totals", "terms",
		},
		Template:      "quotation_template_final.docx",
		OutputPrefix:  "quote",
		Totals:        domain.TotalsQuote,
		OnUnavailable: domain.PolicyFail,
		RequireSource: true,
	}
}

// Defaults returns the built-in kinds with template names and conversion
// policies overridden where configured. Keys are kind names.
func Defaults(templates, policies map[string]string) ([]domain.Kind, error) {
	kinds := []domain.Kind{Invoice(), Quote()}
	for i := range kinds {
		if name := templates[kinds[i].Name]; name != "" {
			kinds[i].Template = name
		}
		if raw := policies[kinds[i].Name]; raw != "" {
			policy, err := domain.ParseConversionPolicy(raw)
			if err != nil {
				return nil, err
			}
			kinds[i].OnUnavailable = policy
		}
	}
	return kinds, nil
}
