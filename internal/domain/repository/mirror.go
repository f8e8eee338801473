package repository

import "context"

// Claves del espejo local que no pertenecen a una colección.
// Las de colecciones salen de entity.Resource.MirrorKey().
const (
	KeyOfflineQueue      = "offlineQueue"
	KeyAuthToken         = "authToken"
	KeyCachedUser        = "cachedUser"
	KeySkillsProfile     = "skillsProfile"
	KeyLearningPath      = "learningPath"
	KeyLearningProgress  = "learningProgress"
	KeyAssessmentResults = "assessmentResults"
)

// LearnerKeys claves del perfil de aprendizaje; se borran al cerrar sesión.
var LearnerKeys = []string{KeySkillsProfile, KeyLearningPath, KeyLearningProgress, KeyAssessmentResults}

// Mirror define el puerto del espejo local clave→documento JSON.
// Las implementaciones guardan el valor tal cual, sin interpretarlo.
type Mirror interface {
	// Get devuelve (valor, true, nil) si la clave existe; (nil, false, nil) si no.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Keys lista las claves presentes en orden alfabético.
	Keys(ctx context.Context) ([]string, error)
}
