package utils

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func TestExtractString(t *testing.T) {
	item := map[string]types.AttributeValue{
		"name":  &types.AttributeValueMemberS{Value: "Gamer"},
		"prize": &types.AttributeValueMemberN{Value: "50"},
	}

	if got := ExtractString(item, "name"); got != "Gamer" {
		t.Errorf("ExtractString(name) = %q, want %q", got, "Gamer")
	}
	if got := ExtractString(item, "prize"); got != "" {
		t.Errorf("ExtractString(non-string attr) = %q, want empty", got)
	}
	if got := ExtractString(item, "missing"); got != "" {
		t.Errorf("ExtractString(missing) = %q, want empty", got)
	}
}

func TestListContainsUserID(t *testing.T) {
	acceptedEntry := func(userID, name string) types.AttributeValue {
		return &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
			"userId": &types.AttributeValueMemberS{Value: userID},
			"name":   &types.AttributeValueMemberS{Value: name},
		}}
	}

	item := map[string]types.AttributeValue{
		"acceptedBy": &types.AttributeValueMemberL{Value: []types.AttributeValue{
			acceptedEntry("u1", "User One"),
			acceptedEntry("u2", "User Two"),
		}},
		"likes": &types.AttributeValueMemberSS{Value: []string{"u3"}},
	}

	if !ListContainsUserID(item, "acceptedBy", "u2") {
		t.Error("ListContainsUserID(acceptedBy, u2) = false, want true")
	}
	if ListContainsUserID(item, "acceptedBy", "u3") {
		t.Error("ListContainsUserID(acceptedBy, u3) = true, want false")
	}
	if ListContainsUserID(item, "missing", "u1") {
		t.Error("ListContainsUserID(missing field) = true, want false")
	}
	if ListContainsUserID(item, "likes", "u3") {
		t.Error("ListContainsUserID(non-list attr) = true, want false")
	}
}
