package dynamo

// DynamoDB attribute and index names shared by the repos and Bootstrap.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldEmail      = "email"
	fieldFriendCode = "friendCode"
	fieldExpiresAt  = "expiresAt"

	indexFriendCode = "friendCode-index"
)
