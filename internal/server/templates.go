package server

import (
	_ "embed"
	"html/template"
)

//go:embed templates/signin.html
var signInPageTemplateHTML string

//go:embed templates/dashboard.html
var dashboardPageTemplateHTML string

var signInPageTemplate = template.Must(template.New("signin").Parse(signInPageTemplateHTML))
var dashboardPageTemplate = template.Must(template.New("dashboard").Parse(dashboardPageTemplateHTML))

// SignInPageData represents the data for the sign-in page
type SignInPageData struct {
	LoginURL string
	Message  string
}

// DashboardPageData represents the data for the dashboard page.
// State is "loaded" or "error"; the error branch shows ErrorMessage and a
// recovery link back to sign-in.
type DashboardPageData struct {
	State        string
	Username     string
	DisplayName  string
	Email        string
	AvatarURL    string
	Tier         string
	ErrorMessage string
	CSRFToken    string
}
