// Package config loads the optional gateway config file. Flags cover the
// common cases, the file is for operators who want to tune invite expiration
// or the user facing message lines.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config carries all file configurable settings of the gateway.
type Config struct {
	ListenAddr    string   `toml:"listen_addr"`
	TelemetryAddr string   `toml:"telemetry_addr"`
	Party         Party    `toml:"party"`
	Notify        Notify   `toml:"notify"`
	Messages      Messages `toml:"messages"`
}

// Party holds directory related settings.
type Party struct {
	RequestExpirationSeconds int `toml:"request_expiration_seconds"`
}

// Expiration returns the invite expiration delay.
func (p Party) Expiration() time.Duration {
	return time.Duration(p.RequestExpirationSeconds) * time.Second
}

// Notify holds notification sink settings.
type Notify struct {
	QueueSize int `toml:"queue_size"`
}

// Messages are the user facing message lines, each a fmt format string whose
// verbs are documented on the field.
type Messages struct {
	InviteExpired   string `toml:"invite_expired"`   // inviting owner
	InviteReceived  string `toml:"invite_received"`  // inviting owner
	InviteSent      string `toml:"invite_sent"`      // invited user
	InviteCancelled string `toml:"invite_cancelled"` // invited user
	InviteWithdrawn string `toml:"invite_withdrawn"` // kicked invitee
	Kicked          string `toml:"kicked"`           // kicking owner
	MemberJoined    string `toml:"member_joined"`    // joining user
	MemberKicked    string `toml:"member_kicked"`    // kicked user, kicking owner
	MemberLeft      string `toml:"member_left"`      // leaving user
	OwnerChanged    string `toml:"owner_changed"`    // new owner
	PartyCreated    string `toml:"party_created"`
}

// Default returns the Config used when no file is given.
func Default() Config {
	return Config{
		ListenAddr:    ":8083",
		TelemetryAddr: ":9000",
		Party: Party{
			RequestExpirationSeconds: 60,
		},
		Notify: Notify{
			QueueSize: 128,
		},
		Messages: Messages{
			InviteExpired:   "Party invite from %s expired.",
			InviteReceived:  "%s invited you to their party.",
			InviteSent:      "Party invite sent to %s.",
			InviteCancelled: "%s cancelled your party invite.",
			InviteWithdrawn: "Party invite to %s cancelled.",
			Kicked:          "%s kicked you from the party.",
			MemberJoined:    "%s joined the party.",
			MemberKicked:    "%s was kicked from the party by %s.",
			MemberLeft:      "%s left the party.",
			OwnerChanged:    "%s is the new party owner.",
			PartyCreated:    "Party created.",
		},
	}
}

// Load reads the TOML file at path on top of the defaults.
func Load(path string) (Config, error) {
	c := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}

	if err := toml.Unmarshal(raw, &c); err != nil {
		return c, err
	}

	return c, nil
}
