package utils

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ExtractString safely extracts a string from a DynamoDB attribute map
func ExtractString(item map[string]types.AttributeValue, field string) string {
	if attr, ok := item[field]; ok {
		if v, ok := attr.(*types.AttributeValueMemberS); ok {
			return v.Value
		}
	}
	return ""
}

// ListContainsUserID reports whether a list attribute of {userId, name} maps
// contains an entry for userID. Used to filter challenges by acceptedBy before
// unmarshalling, since the store cannot filter on nested list members.
func ListContainsUserID(item map[string]types.AttributeValue, field, userID string) bool {
	attr, ok := item[field]
	if !ok {
		return false
	}
	list, ok := attr.(*types.AttributeValueMemberL)
	if !ok {
		return false
	}
	for _, member := range list.Value {
		entry, ok := member.(*types.AttributeValueMemberM)
		if !ok {
			continue
		}
		if ExtractString(entry.Value, "userId") == userID {
			return true
		}
	}
	return false
}
