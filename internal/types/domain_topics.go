package types

// DomainGroup is one educational domain with its suggested child-facing
// learning topics.
type DomainGroup struct {
	Domain string   `json:"domain"`
	Topics []string `json:"topics"`
}

// DomainTopics is the structured taxonomy generated for one primary
// subject.
type DomainTopics struct {
	PrimarySubject string        `json:"primary_subject"`
	Domains        []DomainGroup `json:"domains"`
}
