package render

import (
	"strings"

	"github.com/goliatone/go-leadform/pkg/leadform"
)

// Route suffixes served by the lead form component, relative to the base
// path.
const (
	RouteDetails = "/details"
	RouteField   = "/field"
	RouteLead    = "/lead"
	RouteRestart = "/restart"
	RouteAssets  = "/assets/"
)

// PageField is one input as presented to templates.
type PageField struct {
	Name        string `json:"name"`
	InputName   string `json:"inputName"`
	Value       string `json:"value"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
	Error       string `json:"error,omitempty"`
	Locked      bool   `json:"locked"`
}

// PageEstimate carries the estimate both as numbers and as display strings.
// Monthly figures are the headline; yearly figures are secondary.
type PageEstimate struct {
	Low         float64 `json:"low"`
	High        float64 `json:"high"`
	MonthlyLow  string  `json:"monthlyLow"`
	MonthlyHigh string  `json:"monthlyHigh"`
	YearlyLow   string  `json:"yearlyLow"`
	YearlyHigh  string  `json:"yearlyHigh"`
}

// PageActions are the form targets for each step.
type PageActions struct {
	Details string `json:"details"`
	Field   string `json:"field"`
	Lead    string `json:"lead"`
	Restart string `json:"restart"`
	Assets  string `json:"assets"`
}

// Page is the renderer-neutral presentation of a controller snapshot.
type Page struct {
	Locale       string               `json:"locale"`
	Variant      string               `json:"variant"`
	Step         string               `json:"step"`
	StepNumber   int                  `json:"stepNumber"`
	Steps        int                  `json:"steps"`
	Progress     string               `json:"progress"`
	Confirmation bool                 `json:"confirmation"`
	OnChange     bool                 `json:"onChange"`
	Fields       map[string]PageField `json:"fields"`
	Estimate     *PageEstimate        `json:"estimate,omitempty"`
	Revealed     bool                 `json:"revealed"`
	Submitting   bool                 `json:"submitting"`
	SubmitError  string               `json:"submitError,omitempty"`
	Email        string               `json:"email"`
	FormName     string               `json:"formName"`
	Actions      PageActions          `json:"actions"`
	Hidden       []HiddenField        `json:"hidden,omitempty"`
	Text         map[string]any       `json:"text"`
	ThemeName    string               `json:"themeName,omitempty"`
	ThemeStyle   string               `json:"themeStyle,omitempty"`
	Stylesheet   string               `json:"stylesheet,omitempty"`
	Errors       map[string]string    `json:"errors,omitempty"`
}

// BuildPage projects view into template data using the options' locale,
// base path and theme.
func BuildPage(view leadform.View, opts RenderOptions) Page {
	msgs := opts.ResolveMessages()
	locale := msgs.Locale()
	base := strings.TrimRight(strings.TrimSpace(opts.BasePath), "/")

	page := Page{
		Locale:       locale,
		Variant:      view.Variant,
		Step:         view.Step.String(),
		StepNumber:   view.Step.Number(),
		Steps:        view.Steps,
		Confirmation: view.Confirmation,
		OnChange:     view.Validation == leadform.ValidateOnChange,
		Revealed:     view.Revealed,
		Submitting:   view.Submitting,
		SubmitError:  view.SubmitError,
		Email:        view.Data.Email,
		FormName:     view.FormName,
		Text:         msgs.Tree(),
		Errors:       view.Errors.Messages(),
		Actions: PageActions{
			Details: base + RouteDetails,
			Field:   base + RouteField,
			Lead:    base + RouteLead,
			Restart: base + RouteRestart,
			Assets:  base + RouteAssets,
		},
	}
	page.Progress = ProgressLabel(msgs, page.StepNumber, page.Steps)
	if strings.TrimSpace(opts.Action) != "" {
		page.Actions.Lead = opts.Action
	}

	labels := map[leadform.Field][2]string{
		leadform.FieldSquareFootage: {"ui.label_area", "ui.placeholder_area"},
		leadform.FieldSolarValue:    {"ui.label_solar", "ui.placeholder_solar"},
		leadform.FieldEmail:         {"ui.label_email", "ui.placeholder_email"},
	}
	page.Fields = make(map[string]PageField, len(labels))
	for _, field := range leadform.Fields() {
		pf := PageField{
			Name:        string(field),
			InputName:   FieldName(view.FieldPrefix, field),
			Value:       view.Data.Get(field),
			Label:       msgs.Text(labels[field][0], nil),
			Placeholder: msgs.Text(labels[field][1], nil),
		}
		if err := view.Errors.Get(field); err != nil {
			pf.Error = err.Message
		}
		switch field {
		case leadform.FieldEmail:
			pf.Locked = view.Step != leadform.StepEstimateAndCapture
		default:
			pf.Locked = view.Step != leadform.StepEntryDetails
		}
		page.Fields[string(field)] = pf
	}

	if view.Estimate != nil {
		monthly := view.Estimate.Monthly()
		page.Estimate = &PageEstimate{
			Low:         view.Estimate.Low,
			High:        view.Estimate.High,
			MonthlyLow:  FormatCurrency(monthly.Low, locale),
			MonthlyHigh: FormatCurrency(monthly.High, locale),
			YearlyLow:   FormatCurrency(view.Estimate.Low, locale),
			YearlyHigh:  FormatCurrency(view.Estimate.High, locale),
		}
	}

	hidden := make(map[string]string)
	if !view.Confirmation && view.Estimate != nil {
		sub := leadform.Submission{
			FormName:    view.FormName,
			FieldPrefix: view.FieldPrefix,
			Data:        view.Data,
			Estimate:    *view.Estimate,
		}
		hidden = MergeHiddenFields(hidden, SubmissionFields(sub)...)
	}
	hidden = MergeHiddenFields(hidden, opts.Hidden...)
	page.Hidden = SortedHiddenFields(hidden)

	if opts.Theme != nil {
		page.ThemeName = opts.Theme.Theme
		page.ThemeStyle = CSSVarsStyle(opts.Theme.CSSVars)
		if opts.Theme.AssetURL != nil {
			page.Stylesheet = opts.Theme.AssetURL("leadform.stylesheet")
		}
	}
	if page.Stylesheet == "" {
		page.Stylesheet = page.Actions.Assets + "leadform.css"
	}
	return page
}

// ProgressLabel is the "step of total" indicator text, or "" for a step
// outside the numbered range such as the confirmation screen.
func ProgressLabel(msgs *leadform.Messages, step, total int) string {
	if step < 1 || step > total {
		return ""
	}
	return msgs.Text("ui.progress", map[string]any{"step": step, "total": total})
}
