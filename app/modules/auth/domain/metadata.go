package authdomain

// Metadata keys stored on the hosted user record at guest sign-in.
const (
	MetadataFullName     = "full_name"
	MetadataEmailContact = "email_contact"
)

// NameAndEmail reads the display name and contact email from user metadata,
// falling back to the account email.
func NameAndEmail(metadata map[string]any, accountEmail string) (name, email string) {
	if v, ok := metadata[MetadataFullName].(string); ok {
		name = v
	}
	if v, ok := metadata[MetadataEmailContact].(string); ok && v != "" {
		email = v
	} else {
		email = accountEmail
	}
	return name, email
}
