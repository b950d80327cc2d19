// Package postal turns rendered email templates into MIME messages.
//
// A template renders to text that starts with a block of headers. Most of
// them are copied into the message, but a few are instructions: To, From, Cc,
// Bcc, Reply-To, Sender, and Subject fill in the message properties, Priority
// sets the priority headers, Content-Type picks the charset, and Views names
// alternative views to render and attach as the text and HTML bodies. Any
// property the template leaves out may be defaulted from the view data.
//
// The work is split by layer:
//
//   - view parses rendered text into a view.Message, which writes itself out
//     as a MIME message.
//   - view/image collects the images a template embeds.
//   - render renders text/template views from a file system.
//   - mailer renders, parses, and hands messages to a Sender such as
//     mailer/smtp, mailer/ses, or mailer/pickup.
//   - message and its subpackages are the MIME building blocks underneath:
//     headers, parts, transfer encodings, and charsets.
//
// A minimal program looks like this:
//
//	r := render.New(os.DirFS("views"))
//	svc := mailer.New(r, pickup.New("outbox", nil))
//
//	email := view.NewEmail("Welcome")
//	email.Model = user
//	email.ViewData["from"] = "support@example.com"
//
//	if _, err := svc.Send(ctx, email); err != nil {
//		return err
//	}
package postal
