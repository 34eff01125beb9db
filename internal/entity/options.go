package entity

import "slices"

const (
	DefaultTeamSize    = "1-3"
	DefaultCategory    = "Other"
	DefaultStatus      = "Keep an Eye"
	DefaultFundingType = "Bootstrapped"
	DefaultEdition     = "Select Edition"
	UnassignedRep      = "Unassigned"
)

var TeamSizes = []string{"1-3", "11-50", "201-500", "500+", "1001+"}

var LeadStatuses = []string{
	"Launched on AppSumo", "Launched on Prime Club", "Keep an Eye", "Rejected",
	"Unsubscribed", "Outdated", "Hotlist", "Out of League", "Connected",
	"Locked", "Meeting Booked", "Meeting Done", "Negotiation", "Closed Lost",
}

var FundingTypes = []string{
	"Bootstrapped", "Pre-seed", "Y Combinator", "Angel", "Series A", "Series B", "Series C",
}

var DealStages = []string{
	"Connected", "Locked", "Meeting Booked", "Meeting Done", "Negotiation", "Closed", "Lost",
}

var Editions = []string{"Select Edition", "Limited Edition", "Collector's Edition", "Black Edition"}

var SalesRepNames = []string{"Sarah Johnson", "Mike Davis", "Tom Wilson"}

// StatusToStage lists the lead statuses that put a lead into the deal pipeline.
var StatusToStage = map[string]string{
	"Connected":      "Connected",
	"Locked":         "Locked",
	"Meeting Booked": "Meeting Booked",
	"Meeting Done":   "Meeting Done",
	"Negotiation":    "Negotiation",
	"Closed Lost":    "Lost",
}

func IsTeamSize(v string) bool    { return slices.Contains(TeamSizes, v) }
func IsLeadStatus(v string) bool  { return slices.Contains(LeadStatuses, v) }
func IsFundingType(v string) bool { return slices.Contains(FundingTypes, v) }
func IsDealStage(v string) bool   { return slices.Contains(DealStages, v) }
func IsEdition(v string) bool     { return slices.Contains(Editions, v) }

// IsAssignableRep accepts the fixed rep roster plus the placeholder used by
// automatically created deals.
func IsAssignableRep(v string) bool {
	return v == UnassignedRep || slices.Contains(SalesRepNames, v)
}

// StageForStatus reports the pipeline stage a lead status maps to.
func StageForStatus(status string) (string, bool) {
	stage, ok := StatusToStage[status]
	return stage, ok
}

// DefaultCategories seeds the runtime category registry.
var DefaultCategories = []string{
	"3D Design Software", "Accounting Software", "Affiliate Management", "AI Chatbot Platform",
	"AI Code Assistant", "AI Content Generator", "AI Image Generator", "AI Meeting Assistant",
	"AI Translation Tool", "AI Video Generator", "AI Voice Assistant", "AI Writing Assistant",
	"Analytics Platform", "API Management Platform", "Appointment Scheduling", "Asset Management System",
	"Audio Editing Software", "Backup Software", "Billing Management", "Blockchain Platform",
	"Blog Management System", "Brand Management Platform", "Browser Extension", "Business Intelligence",
	"Calendar Management", "Call Center Software", "Campaign Management", "CAD Software",
	"Chat Widget", "Cloud Storage Platform", "Code Repository", "Collaboration Platform",
	"Content Management System", "Contract Management", "Course Builder", "CRM",
	"Cryptocurrency Exchange", "Customer Support Platform", "Database Management System", "Development Framework",
	"Digital Asset Management", "Digital Signature Platform", "Document Management", "E-commerce Platform",
	"Email Automation Platform", "Email Client", "Email Marketing", "Employee Monitoring",
	"Event Management Platform", "Expense Management", "File Compression Tool", "File Management",
	"Finance Management", "Form Builder", "Forum Software", "Fraud Detection Platform",
	"Game Development Engine", "Graphic Design", "Help Desk", "HR Management System",
	"Identity Management", "Image Optimization Tool", "Influencer Marketing Platform", "Inventory Management",
	"Invoice Management", "Knowledge Base Software", "Landing Page Builder", "Lead Generation Tool",
	"Learning Management System", "Link Management Tool", "Live Chat", "Live Streaming Platform",
	"Marketing Automation", "Meeting Assistant", "Mind Mapping Software", "Mobile App Builder",
	"Music Production Software", "Network Monitoring Tool", "Note Taking App", "Password Manager",
	"Payment Gateway", "Payment Processing", "PDF Editor", "Performance Monitoring",
	"Photo Editing Software", "Podcast Hosting Platform", "Point of Sale System", "Product Information Management",
	"Project Management", "Proposal Management", "QR Code Generator", "Quality Assurance Platform",
	"Quiz Builder", "Recruitment Platform", "Remote Desktop Software", "Sales Analytics Platform",
	"Sales Enablement Platform", "Sales Funnel Builder", "Screen Recording Software", "Search Engine Optimization",
	"Security Testing Platform", "Server Management Tool", "Social Media Management", "Stock Photo Platform",
	"Survey Platform", "Task Management", "Tax Software", "Team Communication",
	"Time Tracking Software", "Transcription Software", "User Feedback Platform", "Vibe Coding Software",
	"Video Conferencing", "Video Editing Software", "Virtual Event Platform", "VPN",
	"Web Analytics Platform", "Website Builder", "Website Monitoring Tool", "Webinar Platform",
	"White Label Platform", "WordPress Plugin", "Workflow Automation", "Other",
}
