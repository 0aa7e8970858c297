package models

// SmsTemplates holds the five message bodies sent on lifecycle transitions.
// Tokens of the form {key} are substituted at dispatch time.
type SmsTemplates struct {
	NewComplaint         string `json:"newComplaint"`
	ReferralToEngineer   string `json:"referralToEngineer"`
	ReferralNotification string `json:"referralNotification"`
	DefectReturn         string `json:"defectReturn"`
	FinalVerdict         string `json:"finalVerdict"`
}

// SmsSettings is the process-wide SMS panel configuration, persisted as a
// singleton settings document and mutated only by administrative update.
type SmsSettings struct {
	APIKey     string       `json:"apiKey"`
	LineNumber string       `json:"lineNumber"`
	IsEnabled  bool         `json:"isEnabled"`
	Templates  SmsTemplates `json:"templates"`
}

// DefaultSmsTemplates returns the stock Persian templates.
func DefaultSmsTemplates() SmsTemplates {
	return SmsTemplates{
		NewComplaint:         "شکایت شما با کد پیگیری {id} در سامانه ثبت شد.",
		ReferralToEngineer:   "همکار گرامی، پرونده جدیدی با کد {id} به کارتابل شما ارجاع شد.",
		ReferralNotification: "شکایت {id} جهت بررسی به {target} ارجاع شد.",
		DefectReturn:         "پرونده {id} دارای نقص مدارک است. لطفا جهت تکمیل اطلاعات به سامانه مراجعه کنید.",
		FinalVerdict:         "رای نهایی پرونده {id} صادر شد. جهت مشاهده به سامانه مراجعه کنید.",
	}
}

// DefaultSmsSettings returns the settings used until an admin saves their own.
// Credentials come from the environment, not from code.
func DefaultSmsSettings(apiKey, lineNumber string) *SmsSettings {
	return &SmsSettings{
		APIKey:     apiKey,
		LineNumber: lineNumber,
		IsEnabled:  true,
		Templates:  DefaultSmsTemplates(),
	}
}

// FillTemplateDefaults replaces any empty template with its stock text, so a
// settings document saved by an older build keeps working after new templates
// are introduced.
func (s *SmsSettings) FillTemplateDefaults() {
	def := DefaultSmsTemplates()
	if s.Templates.NewComplaint == "" {
		s.Templates.NewComplaint = def.NewComplaint
	}
	if s.Templates.ReferralToEngineer == "" {
		s.Templates.ReferralToEngineer = def.ReferralToEngineer
	}
	if s.Templates.ReferralNotification == "" {
		s.Templates.ReferralNotification = def.ReferralNotification
	}
	if s.Templates.DefectReturn == "" {
		s.Templates.DefectReturn = def.DefectReturn
	}
	if s.Templates.FinalVerdict == "" {
		s.Templates.FinalVerdict = def.FinalVerdict
	}
}
