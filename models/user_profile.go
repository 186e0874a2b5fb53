package models

// UserProfile defines the structure for user profiles
type UserProfile struct {
	UserID       string `dynamodbav:"userId" json:"userId"`
	EmailID      string `dynamodbav:"emailId" json:"emailId"`
	Username     string `dynamodbav:"username" json:"username"`
	Name         string `dynamodbav:"name" json:"name"`
	PasswordHash string `dynamodbav:"passwordHash" json:"-"`
	CreatedAt    string `dynamodbav:"createdAt" json:"createdAt"`
	AvatarURL    string `dynamodbav:"-" json:"avatarUrl,omitempty"` // derived from username, never stored
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"

// AnonymousName is used when a display name cannot be resolved.
const AnonymousName = "Anonymous"

// DisplayName returns the profile's name, falling back to username, then to
// the anonymous placeholder.
func (p *UserProfile) DisplayName() string {
	if p == nil {
		return AnonymousName
	}
	if p.Name != "" {
		return p.Name
	}
	if p.Username != "" {
		return p.Username
	}
	return AnonymousName
}
