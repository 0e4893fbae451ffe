package mail

import (
	"bytes"
	"fmt"
	"html/template"
)

const ResetSubject = "Reset your password"

var resetTemplate = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
<body>
<p>Hello {{.Name}},</p>
<p>We received a request to reset the password of your account.
Follow the link below to choose a new one. The link expires in {{.ValidFor}}.</p>
<p><a href="{{.Link}}">Reset password</a></p>
<p>If you did not ask for a reset, you can ignore this message.</p>
</body>
</html>
`))

// ResetEmail holds the values rendered into the reset message.
type ResetEmail struct {
	Name     string
	Link     string
	ValidFor string
}

// RenderReset renders the HTML body of a password reset message.
func RenderReset(data ResetEmail) (string, error) {
	var buf bytes.Buffer
	if err := resetTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render reset email: %w", err)
	}
	return buf.String(), nil
}
