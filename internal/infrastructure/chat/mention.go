package chat

import "fmt"

// Mention formats a user mention in the platform's wire syntax.
func Mention(userID string) string { return "<@" + userID + ">" }

// MentionRole formats a role mention.
func MentionRole(roleID string) string { return "<@&" + roleID + ">" }

// MentionChannel formats a channel mention.
func MentionChannel(channelID string) string { return "<#" + channelID + ">" }

// JumpLink builds a clickable deep link to a channel, for use in DMs where
// channel mentions don't resolve.
func JumpLink(appURL, communityID, channelID string) string {
	if appURL == "" || communityID == "" {
		return MentionChannel(channelID)
	}
	return fmt.Sprintf("%s/channels/%s/%s", appURL, communityID, channelID)
}
