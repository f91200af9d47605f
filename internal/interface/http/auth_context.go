package http

import "github.com/gin-gonic/gin"

const authSubjectKey = "auth_subject"

func setSubject(c *gin.Context, subject string) {
	c.Set(authSubjectKey, subject)
}

func getSubject(c *gin.Context) (string, bool) {
	value, ok := c.Get(authSubjectKey)
	if !ok {
		return "", false
	}
	subject, ok := value.(string)
	return subject, ok
}
