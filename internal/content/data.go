package content

// Service is one line of work the firm offers.
type ServiceInfo struct {
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
}

type FAQEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type TeamMember struct {
	Name string `json:"name"`
	Role string `json:"role"`
	Bio  string `json:"bio"`
}

var services = []ServiceInfo{
	{
		Slug:        "accounts",
		Name:        "Annual Accounts",
		Description: "Statutory year-end accounts prepared and filed for limited companies, partnerships and sole traders.",
		Features:    []string{"Companies House filing", "Abridged and full accounts", "Deadline reminders"},
	},
	{
		Slug:        "tax",
		Name:        "Tax Returns",
		Description: "Personal and corporation tax returns, computations and HMRC correspondence handled end to end.",
		Features:    []string{"Self assessment", "Corporation tax", "Capital gains planning"},
	},
	{
		Slug:        "payroll",
		Name:        "Payroll",
		Description: "Weekly or monthly payroll runs with payslips, RTI submissions and pension auto-enrolment.",
		Features:    []string{"RTI submissions", "Auto-enrolment", "P60s and P45s"},
	},
	{
		Slug:        "vat",
		Name:        "VAT",
		Description: "VAT registration, quarterly returns and Making Tax Digital compliant record keeping.",
		Features:    []string{"MTD filing", "Scheme selection advice", "HMRC enquiries"},
	},
	{
		Slug:        "bookkeeping",
		Name:        "Bookkeeping",
		Description: "Day-to-day transaction processing, bank reconciliation and management reporting.",
		Features:    []string{"Cloud bookkeeping", "Monthly management accounts", "Receipt capture"},
	},
}

var faq = []FAQEntry{
	{
		Question: "How do I send you my records?",
		Answer:   "Upload documents through the client portal. Files are stored encrypted and only visible to you and your accountant.",
	},
	{
		Question: "What are your filing deadlines?",
		Answer:   "Self assessment returns are due 31 January; company accounts nine months after year end. We chase you well before either.",
	},
	{
		Question: "Can you take over from my current accountant?",
		Answer:   "Yes. Once you appoint us we handle the professional clearance letter and records transfer with your previous firm.",
	},
	{
		Question: "How is my data protected?",
		Answer:   "All access requires a signed-in session, documents are served through expiring links, and nothing is shared with third parties.",
	},
	{
		Question: "Do you work with contractors?",
		Answer:   "We advise on IR35 status, run limited company payroll and prepare the accounts and returns that go with it.",
	},
}

var team = []TeamMember{
	{
		Name: "Margaret Ellison",
		Role: "Managing Partner, FCA",
		Bio:  "Thirty years in practice across owner-managed businesses, with a focus on tax planning for family companies.",
	},
	{
		Name: "David Okafor",
		Role: "Senior Accountant, ACCA",
		Bio:  "Leads the accounts and VAT teams and looks after most of the firm's limited company clients.",
	},
	{
		Name: "Priya Shah",
		Role: "Payroll Manager",
		Bio:  "Runs payroll for over two hundred employers, from single-director companies to fifty-seat offices.",
	},
	{
		Name: "Tom Whitfield",
		Role: "Client Manager",
		Bio:  "First point of contact for new clients and the person chasing you, kindly, before every deadline.",
	},
}
