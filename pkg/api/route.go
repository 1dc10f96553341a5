package api

import (
	"github.com/gin-gonic/gin"
	"github.com/m-mizutani/brainfeed/internal"
	"github.com/sirupsen/logrus"
)

var logger = internal.Logger

// Arguments is shared by all API handlers.
type Arguments struct {
	// DataFolder is the default root of source paths
	DataFolder string
	// MaxBodySize limits size of a posted source in bytes. Zero means no limit.
	MaxBodySize int64
}

type apiResponse struct {
	Code    int
	Message interface{}
}

type handler func(args Arguments, c *gin.Context) (*apiResponse, apiError)

func handleRequest(args Arguments, c *gin.Context, hdlr handler) {
	resp, err := hdlr(args, c)
	if err != nil {
		entry := logger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"code":   err.Code(),
		})
		if _, ok := err.(*systemError); ok {
			internal.HandleError(err)
		} else {
			entry.WithError(err).Warn("Request failed")
		}
		c.JSON(err.Code(), gin.H{"message": err.Message()})
		return
	}

	c.JSON(resp.Code, resp.Message)
}

// SetupRoute binds dataset endpoints to r.
func SetupRoute(r *gin.RouterGroup, args Arguments) {
	r.GET("/datasets", func(c *gin.Context) {
		handleRequest(args, c, listDatasets)
	})
	r.GET("/datasets/:key", func(c *gin.Context) {
		handleRequest(args, c, getDataset)
	})
	r.GET("/datasets/:key/path", func(c *gin.Context) {
		handleRequest(args, c, getSourcePath)
	})
	r.POST("/datasets/:key/records", func(c *gin.Context) {
		handleRequest(args, c, parseRecords)
	})
}

// NewEngine returns a gin engine serving SetupRoute under /api/v1.
func NewEngine(args Arguments) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	v1 := r.Group("/api/v1")
	SetupRoute(v1, args)
	return r
}
