package config

import "os"

// FirebaseCredentialsPath returns the service account file used by the Firebase
// Admin SDK. GOOGLE_APPLICATION_CREDENTIALS wins when it is set.
func FirebaseCredentialsPath() string {
	if p := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); p != "" {
		return p
	}
	return AppConfig.FirebaseCredentialsFile
}
