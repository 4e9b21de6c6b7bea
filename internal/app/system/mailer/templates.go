// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/dalemusser/practicefinder/internal/app/system/htmlsanitize"
	"github.com/dalemusser/practicefinder/internal/domain/models"
)

// SiteName appears in headings and closing lines.
const SiteName = "Practice Finder"

// field is one labelled value in a notice. Value is already escaped.
type field struct {
	Label string
	Value template.HTML
}

// notice is the data every email template renders.
type notice struct {
	SiteName  string
	Heading   string
	Greeting  string
	Lines     []template.HTML
	Fields    []field
	Items     []string
	LinkLabel string
	Link      string
	Closing   string
}

func safe(s string) template.HTML { return template.HTML(htmlsanitize.Strip(s)) }

func build(to, subject string, n notice) Email {
	n.SiteName = SiteName
	return Email{
		To:       to,
		Subject:  subject,
		TextBody: noticeText(n),
		HTMLBody: noticeHTML(n),
	}
}

// safeHref drops javascript: links supplied by a form.
func safeHref(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(strings.ToLower(s), "javascript:") {
		return ""
	}
	return s
}

// ListingURL is the public page of a listing under domain.
func ListingURL(domain string, p models.Practice) string {
	return strings.TrimRight(domain, "/") + "/listings/" + p.ID.Hex()
}

/*─────────────────────────────────────────────────────────────────────────────*
| Account                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// BuildWelcome is sent to a new user right after sign-up.
func BuildWelcome(u models.User) Email {
	return build(u.Email, "Welcome To Practice Finder", notice{
		Heading: "Welcome to Practice Finder",
		Lines: []template.HTML{
			"Thanks for signing up! We will notify you as soon as your account is approved and created.",
		},
	})
}

// BuildNewAccount tells the admin a sign-up is waiting for activation.
func BuildNewAccount(u models.User) Email {
	return build("", "[ACTION REQUIRED] New Account Created", notice{
		Heading: "New Account Created",
		Lines:   []template.HTML{"A new account is waiting for activation."},
		Fields: []field{
			{"First Name", safe(u.FirstName)},
			{"Last Name", safe(u.LastName)},
			{"Email", safe(u.Email)},
			{"NPI", safe(u.NPI)},
		},
	})
}

// BuildActivated tells a user their account can now sign in.
func BuildActivated(u models.User) Email {
	return build(u.Email, "Your Practice Finder account is activated!", notice{
		Heading:  "Your Practice Finder Account Has Been Activated",
		Greeting: u.FullName(),
		Lines: []template.HTML{
			"We're pleased to inform you that your Practice Finder account has been activated. You can now log in and start using our services.",
			"If you have any questions or need assistance, please don't hesitate to contact our support team.",
		},
		Closing: "Thank you for choosing Practice Finder!",
	})
}

// BuildPasswordChanged confirms a password change.
func BuildPasswordChanged(u models.User) Email {
	return build(u.Email, "Password Changed", notice{
		Heading:  "Your Practice Finder Password Has Been Changed",
		Greeting: u.FullName(),
		Lines: []template.HTML{
			"Your account password has been successfully changed.",
			"If you did not make this change or if you have any questions, please contact our support team immediately.",
		},
		Closing: "Thank you for using Practice Finder!",
	})
}

// BuildProfileUpdated lists the profile fields that changed.
func BuildProfileUpdated(u models.User, changed []string) Email {
	return build(u.Email, "Account Information Updated", notice{
		Heading:  "Your Practice Finder Account Has Been Updated",
		Greeting: u.FullName(),
		Lines: []template.HTML{
			"Your account information has been updated. The following fields were changed:",
		},
		Items:   changed,
		Closing: "Thank you for using Practice Finder!",
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| Listings                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// BuildLikeAdmin tells the admin which user liked which listing.
func BuildLikeAdmin(u models.User, p models.Practice, domain string) Email {
	url := ListingURL(domain, p)
	line := fmt.Sprintf("User %s %s (%s) has liked the listing: %s (ID: %d)",
		htmlsanitize.Strip(u.FirstName), htmlsanitize.Strip(u.LastName),
		htmlsanitize.Strip(u.Email), htmlsanitize.Strip(p.Name), p.Number)
	return build("", "New Listing Like", notice{
		Heading:   "New Listing Like",
		Lines:     []template.HTML{template.HTML(line)},
		LinkLabel: "View listing",
		Link:      url,
	})
}

// BuildLikeUser confirms a like to the user.
func BuildLikeUser(u models.User, p models.Practice, domain string) Email {
	line := "You have successfully liked the listing: " + htmlsanitize.Strip(p.Name)
	return build(u.Email, "You Liked a Listing", notice{
		Heading:   "You Liked a Listing",
		Greeting:  u.FullName(),
		Lines:     []template.HTML{template.HTML(line)},
		LinkLabel: "View listing",
		Link:      ListingURL(domain, p),
	})
}

// Interest is the listing and contact data of a request-interest form.
type Interest struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string

	ListingID  string
	ListingNum int
	Name       string
	URL        string

	Choices []string
}

// BuildInterest is the admin email for a request-interest submission.
func BuildInterest(in Interest) Email {
	subject := fmt.Sprintf("New Listing Interest - ID %d - %s", in.ListingNum, in.Name)
	return build("", subject, notice{
		Heading: "New Listing Interest",
		Lines:   []template.HTML{"The user selected the following options:"},
		Items:   in.Choices,
		Fields: []field{
			{"Name", safe(strings.TrimSpace(in.FirstName + " " + in.LastName))},
			{"Email", safe(in.Email)},
			{"Phone", safe(in.Phone)},
			{"Listing ID", safe(fmt.Sprint(in.ListingNum))},
			{"Listing Name", safe(in.Name)},
		},
		LinkLabel: "View listing",
		Link:      safeHref(in.URL),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| Public                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// BuildContact is the admin email for a contact form submission.
func BuildContact(name, email, message string) Email {
	return build("", "New Contact Form Submission", notice{
		Heading: "New Contact Form Submission",
		Fields: []field{
			{"Name", safe(name)},
			{"Email", safe(email)},
			{"Message", template.HTML(htmlsanitize.Paragraphs(message))},
		},
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| Rendering                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func noticeText(n notice) string {
	var buf bytes.Buffer
	buf.WriteString(n.Heading + "\n\n")
	if n.Greeting != "" {
		fmt.Fprintf(&buf, "Dear %s,\n\n", n.Greeting)
	}
	for _, l := range n.Lines {
		buf.WriteString(htmlsanitize.Text(string(l)) + "\n\n")
	}
	for _, it := range n.Items {
		buf.WriteString("  - " + it + "\n")
	}
	if len(n.Items) > 0 {
		buf.WriteString("\n")
	}
	for _, f := range n.Fields {
		fmt.Fprintf(&buf, "%s: %s\n", f.Label, htmlsanitize.Text(string(f.Value)))
	}
	if len(n.Fields) > 0 {
		buf.WriteString("\n")
	}
	if n.Link != "" {
		fmt.Fprintf(&buf, "%s: %s\n\n", n.LinkLabel, n.Link)
	}
	if n.Closing != "" {
		buf.WriteString(n.Closing + "\n")
	}
	return buf.String()
}

var noticeTmpl = template.Must(template.New("notice").Parse(noticeHTMLTemplate))

func noticeHTML(n notice) string {
	var buf bytes.Buffer
	_ = noticeTmpl.Execute(&buf, n)
	return buf.String()
}

const noticeHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Heading}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 560px; background-color: #ffffff; border-radius: 8px;">
          <tr>
            <td style="padding: 32px 32px 16px; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 22px; font-weight: 600; color: #1f2937;">{{.Heading}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 24px 32px; font-size: 15px; color: #374151; line-height: 1.5;">
              {{if .Greeting}}<p>Dear {{.Greeting}},</p>{{end}}
              {{range .Lines}}<p>{{.}}</p>{{end}}
              {{if .Items}}<ul>{{range .Items}}<li>{{.}}</li>{{end}}</ul>{{end}}
              {{if .Fields}}
              <table role="presentation" cellspacing="0" cellpadding="4">
                {{range .Fields}}<tr><td style="font-weight: 600; vertical-align: top;">{{.Label}}:</td><td>{{.Value}}</td></tr>{{end}}
              </table>
              {{end}}
              {{if .Link}}<p><a href="{{.Link}}" style="color: #4f46e5;">{{.LinkLabel}}</a></p>{{end}}
              {{if .Closing}}<p>{{.Closing}}</p>{{end}}
            </td>
          </tr>
          <tr>
            <td style="padding: 16px 32px; background-color: #f9fafb; border-top: 1px solid #e5e7eb; border-radius: 0 0 8px 8px;">
              <p style="margin: 0; font-size: 12px; color: #9ca3af; text-align: center;">{{.SiteName}}</p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
