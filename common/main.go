package common

import (
	"strconv"
	"strings"
	"time"

	"github.com/mcnijman/go-emailaddress"
	"github.com/pkg/errors"
)

// ValidateEmailAddress returns an error if the format of an email address is invalid.
func ValidateEmailAddress(emailAddress string) error {
	_, err := emailaddress.Parse(emailAddress)
	return err
}

// ValidateEmailAddresses validates a comma-separated list of email addresses,
// as stored in a notification type's email_to field. An empty list is valid.
func ValidateEmailAddresses(emailAddresses string) error {
	if emailAddresses == "" {
		return nil
	}
	for _, emailAddress := range strings.Split(emailAddresses, ",") {
		emailAddress = strings.TrimSpace(emailAddress)
		err := ValidateEmailAddress(emailAddress)
		if err != nil {
			return errors.Wrapf(err, "invalid email address `%s`", emailAddress)
		}
	}
	return nil
}

// SplitEmailAddresses splits a comma-separated list of email addresses,
// trimming surrounding whitespace and dropping empty entries.
func SplitEmailAddresses(emailAddresses string) []string {
	var addresses []string
	for _, emailAddress := range strings.Split(emailAddresses, ",") {
		emailAddress = strings.TrimSpace(emailAddress)
		if emailAddress != "" {
			addresses = append(addresses, emailAddress)
		}
	}
	return addresses
}

// FormatTimestamp formats a timestamp the way our outgoing messages expect it:
// the number of milliseconds since the epoch, as a string.
func FormatTimestamp(timestamp time.Time) string {
	return strconv.FormatInt(timestamp.UnixNano()/1000000, 10)
}
