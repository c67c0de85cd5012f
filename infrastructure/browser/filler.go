package browser

import (
	"context"
	"fmt"
	"strings"

	"formpilot/domain/entities"
	"formpilot/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// FillRuleSkip marks a field that must never be touched on the page.
const FillRuleSkip = "skip"

// FormFiller fills automation fields by matching them against page controls by
// name, id, label and placeholder. It never aborts on a single field.
type FormFiller struct {
	logger *logrus.Logger
}

// NewFormFiller - creates a generic form filler
func NewFormFiller(logger *logrus.Logger) *FormFiller {
	return &FormFiller{logger: logger}
}

// Fill - fills fields strictly in order; per-field errors go to the report
func (f *FormFiller) Fill(ctx context.Context, page interfaces.Page, fields []entities.AutomationField) entities.FillReport {
	report := entities.FillReport{Filled: make([]string, 0, len(fields))}

	for i, field := range fields {
		if ctx.Err() != nil {
			for _, rest := range fields[i:] {
				report.Skipped = append(report.Skipped, rest.FieldID)
			}
			break
		}

		if shouldSkip(field) {
			report.Skipped = append(report.Skipped, field.FieldID)
			continue
		}

		if err := f.fillField(ctx, page, field); err != nil {
			f.logger.Warnf("Failed to fill field %s (%s): %v", field.FieldID, field.ControlType, err)
			report.Failures = append(report.Failures, entities.FieldFailure{
				FieldID: field.FieldID,
				Reason:  err.Error(),
			})
			continue
		}
		report.Filled = append(report.Filled, field.FieldID)
	}

	return report
}

func shouldSkip(field entities.AutomationField) bool {
	if strings.EqualFold(field.Metadata.FillRule, FillRuleSkip) {
		return true
	}
	switch field.ControlType {
	case entities.ControlCheckbox:
		return false
	case entities.ControlSelect, entities.ControlRadio:
		return len(field.Value.List()) == 0
	default:
		return field.Value.Kind() == entities.ValueString && field.Value.String() == ""
	}
}

func (f *FormFiller) fillField(ctx context.Context, page interfaces.Page, field entities.AutomationField) error {
	switch field.ControlType {
	case entities.ControlRadio:
		return f.checkOption(ctx, page, field, "radio", field.Value.List()[0])

	case entities.ControlCheckbox:
		if field.Value.Kind() == entities.ValueList {
			for _, v := range field.Value.List() {
				if err := f.checkOption(ctx, page, field, "checkbox", v); err != nil {
					return err
				}
			}
			return nil
		}
		el, _, err := interfaces.FindFirst(ctx, page, controlCandidates(field))
		if err != nil {
			return err
		}
		return el.SetChecked(ctx, field.Value.Bool())

	case entities.ControlSelect:
		el, _, err := interfaces.FindFirst(ctx, page, controlCandidates(field))
		if err != nil {
			return err
		}
		return el.SelectOptions(ctx, field.Value.List())

	default:
		el, _, err := interfaces.FindFirst(ctx, page, controlCandidates(field))
		if err != nil {
			return err
		}
		return el.Fill(ctx, field.Value.String())
	}
}

// checkOption checks the radio or checkbox option with the given value.
func (f *FormFiller) checkOption(ctx context.Context, page interfaces.Page, field entities.AutomationField, inputType, value string) error {
	name := field.FieldID
	candidates := []entities.Selector{
		entities.ByCSS(fmt.Sprintf(`input[type=%q][name=%s][value=%s]`, inputType, cssQuote(name), cssQuote(value))),
		entities.ByCSS(fmt.Sprintf(`input[type=%q][name=%s][value=%s]`, inputType, cssQuote(name+"[]"), cssQuote(value))),
		entities.ByLabel(optionLabel(field, value)),
	}
	el, _, err := interfaces.FindFirst(ctx, page, candidates)
	if err != nil {
		return fmt.Errorf("option %q: %w", value, err)
	}
	return el.SetChecked(ctx, true)
}

// optionLabel returns the declared label for value, or value itself.
func optionLabel(field entities.AutomationField, value string) string {
	for _, opt := range field.Metadata.Options {
		if opt.Value == value && opt.Label != "" {
			return opt.Label
		}
	}
	return value
}

// controlCandidates lists the selectors tried for a single control. Fields
// remapped to a site label try that label first.
func controlCandidates(field entities.AutomationField) []entities.Selector {
	var out []entities.Selector
	if field.Metadata.PreferLabel && field.Label != "" {
		out = append(out, entities.ByLabel(field.Label))
	}

	tag := tagFor(field.ControlType)
	out = append(out,
		attrSelector(tag, "name", field.FieldID),
		attrSelector(tag, "id", field.FieldID),
		attrSelector(tag, "data-field-id", field.FieldID),
	)

	if field.Label != "" && !field.Metadata.PreferLabel {
		out = append(out, entities.ByLabel(field.Label))
	}
	if field.Metadata.Placeholder != "" {
		out = append(out, attrSelector(tag, "placeholder", field.Metadata.Placeholder))
	}
	return out
}

func tagFor(ct entities.ControlType) string {
	switch ct {
	case entities.ControlTextarea:
		return "textarea"
	case entities.ControlSelect:
		return "select"
	case entities.ControlCheckbox:
		return `input[type="checkbox"]`
	default:
		return ""
	}
}

var _ interfaces.FormFiller = (*FormFiller)(nil)
