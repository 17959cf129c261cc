// Package response writes the API envelope used by every legalchat
// endpoint: {"code": 0, "message": "", "data": ...}. Business failures
// keep HTTP 200 and carry an errcode value in the body, so clients
// switch on code, not on the HTTP status.
package response

import (
	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/webapi/proxyutil"
)

// apiError satisfies the coder interface proxyutil inspects when it
// builds the failure envelope.
type apiError struct {
	code uint32
	msg  string
}

func (e apiError) Error() string {
	return e.msg
}

func (e apiError) Code() uint32 {
	return e.code
}

func Success(c *gin.Context, data interface{}) {
	proxyutil.SuccessJson(c, data)
}

func Error(c *gin.Context, code int, message string) {
	proxyutil.FailJson(c, 200, apiError{code: uint32(code), msg: message})
}
