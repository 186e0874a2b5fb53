package models

// ChallengeGroup is the realtime sidecar record created alongside a challenge.
// It carries the chat group's identity; the gameName copy is kept in sync when
// the challenge is edited and the whole group (with its messages) is removed
// when the challenge is deleted.
type ChallengeGroup struct {
	ChallengeID string `dynamodbav:"challengeId" json:"challengeId"`
	GameName    string `dynamodbav:"gameName" json:"gameName"`
	CreatedBy   string `dynamodbav:"createdBy" json:"createdBy"`
	CreatedAt   string `dynamodbav:"createdAt" json:"createdAt"`
}

// ChallengeGroupsTable is the DynamoDB table name for challenge chat groups
const ChallengeGroupsTable = "ChallengeGroups"
