package middleware

// Point unique d'évaluation des accès aux ressources possédées : remplace les
// vérifications ad hoc (rôle == admin || propriétaire) dupliquées dans les handlers.

// CanAccessResource autorise l'accès si le sujet est admin ou s'il possède la ressource
func CanAccessResource(subjectRole, subjectID, ownerID string) bool {
	if subjectRole == "admin" {
		return true
	}
	return subjectID != "" && subjectID == ownerID
}
