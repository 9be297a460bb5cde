package vmmodel

const MembershipActive = "Active"

type Customer struct {
	ID                  string `json:"id"`
	FullName            string `json:"fullName"`
	PhoneNumber         string `json:"phoneNumber"`
	Email               string `json:"email"`
	GymMembershipID     string `json:"gymMembershipId"`
	MembershipStatus    string `json:"membershipStatus"`
	SubscriptionPackage string `json:"subscriptionPackage"`
	DateOfRegistration  string `json:"dateOfRegistration"`
	ProfilePicture      string `json:"profilePicture,omitempty"`
	EndDate             string `json:"endDate,omitempty"`
}

func (c *Customer) setID(id string) { c.ID = id }
