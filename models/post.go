package models

// MaxPostContentLength bounds post content length in characters.
const MaxPostContentLength = 500

// Post defines the structure for feed posts
type Post struct {
	PostID    string   `dynamodbav:"postId" json:"postId"`
	Content   string   `dynamodbav:"content" json:"content"`
	UserID    string   `dynamodbav:"userId" json:"userId"`
	UserName  string   `dynamodbav:"userName" json:"userName"` // display name snapshot taken at post time
	Likes     []string `dynamodbav:"likes,stringset,omitemptyelem" json:"likes,omitempty"`
	CreatedAt string   `dynamodbav:"createdAt" json:"createdAt"`
}

// PostsTable is the DynamoDB table name for posts
const PostsTable = "Posts"

// HasLiked reports whether userID is in the likes set.
func (p *Post) HasLiked(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}
