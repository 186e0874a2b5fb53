package models

// ChatMessage is one message in a challenge group chat. Messages are append
// only: never edited or deleted individually, displayed ascending by createdAt.
type ChatMessage struct {
	ChallengeID string `dynamodbav:"challengeId" json:"challengeId"`
	MessageID   string `dynamodbav:"messageId" json:"messageId"`
	UserID      string `dynamodbav:"userId" json:"userId"`
	UserName    string `dynamodbav:"-" json:"userName,omitempty"` // merged in from UserProfiles on read
	Text        string `dynamodbav:"text" json:"text"`
	CreatedAt   string `dynamodbav:"createdAt" json:"createdAt"`
}

// MessagesTable is the DynamoDB table name for challenge chat messages
const MessagesTable = "Messages"
