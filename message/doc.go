// Package message builds MIME messages for output. A message is a tree of
// parts: each part is either an Opaque leaf holding content or a Multipart
// branch holding sub-parts. A Buffer gives a convenient way to construct
// either kind.
//
//	txt := &message.Buffer{}
//	txt.SetMediaType("text/plain")
//	_, _ = fmt.Fprintln(txt, "Hello World!")
//
//	html := &message.Buffer{}
//	html.SetMediaType("text/html")
//	_, _ = fmt.Fprintln(html, "<p>Hello World!</p>")
//
//	txtPart, _ := txt.Opaque()
//	htmlPart, _ := html.Opaque()
//	msg := message.MultipartAlternative(txtPart, htmlPart)
//	_, _ = msg.WriteTo(os.Stdout)
package message
