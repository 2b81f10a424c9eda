package entities

// RelationshipType labels why two items are related, not just how much
type RelationshipType string

const (
	RelationSameAuthor   RelationshipType = "same_author"
	RelationUpdate       RelationshipType = "update"
	RelationSimilarTopic RelationshipType = "similar_topic"
	RelationSimilar      RelationshipType = "similar"
)

// UpsertRelatedLink applies upsert-by-relatedContentId semantics to the
// record's link list: an existing link to the same related id has its
// type and strength overwritten, otherwise the link is appended.
// Repeated application with the same link is a no-op, so retries are safe.
func (m *ContentMetadata) UpsertRelatedLink(link RelatedContentLink) {
	for i := range m.RelatedLinks {
		if m.RelatedLinks[i].RelatedContentID == link.RelatedContentID {
			m.RelatedLinks[i].RelationshipType = link.RelationshipType
			m.RelatedLinks[i].Strength = link.Strength
			return
		}
	}
	m.RelatedLinks = append(m.RelatedLinks, link)
}
