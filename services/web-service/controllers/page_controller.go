package controllers

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

// IndexTemplate is the landing page served on GET /.
var IndexTemplate = template.Must(template.New("index").Parse(`<html>
    <head>
        <title>Hello from Fargate!</title>
        <style>
            body { font-family: Arial, sans-serif; margin: 50px; background-color: #f0f0f0; }
            .container { background-color: white; padding: 30px; border-radius: 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
            h1 { color: #232F3E; }
            .info { background-color: #e8f4fd; padding: 15px; border-radius: 5px; margin-top: 20px; }
        </style>
    </head>
    <body>
        <div class="container">
            <h1>Hello from AWS Fargate!</h1>
            <p>Your containerized web application is running on Amazon ECS with AWS Fargate.</p>
            <div class="info">
                <strong>Container Info:</strong><br>
                &bull; Application: {{.Service}} (Go gin server)<br>
                &bull; Platform: AWS Fargate (Serverless Containers)<br>
                &bull; Port: {{.Port}}<br>
                &bull; Status: Running
            </div>
        </div>
    </body>
</html>
`))

type PageController struct {
	service string
	port    int
}

func NewPageController(service string, port int) *PageController {
	return &PageController{service: service, port: port}
}

func (pc *PageController) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index", gin.H{"Service": pc.service, "Port": pc.port})
}

// Health is polled by the load balancer target group.
func (pc *PageController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": pc.service,
		"port":    pc.port,
	})
}
