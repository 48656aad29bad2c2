package api

import (
	"io"
	"net/http"
	"os"
	"path"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/matchvision/match-analyzer/pkg/store"
	"github.com/matchvision/match-analyzer/pkg/utils"
	"github.com/matchvision/match-analyzer/pkg/video"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

func SetRouter(st store.Store) *gin.Engine {
	r := gin.Default()

	apiRoutes := r.Group("/api")

	apiRoutes.GET("/ReadyVideosNames", func(ctx *gin.Context) {
		if names, err := utils.ListDir(viper.GetString("directory.ready")); err != nil {
			ctx.Status(http.StatusInternalServerError)
		} else {
			ctx.JSON(http.StatusOK, names)
		}
	})

	apiRoutes.GET("/UserUploadsVideosNames", func(ctx *gin.Context) {
		if names, err := utils.ListDir(viper.GetString("directory.source")); err != nil {
			ctx.Status(http.StatusInternalServerError)
		} else {
			ctx.JSON(http.StatusOK, names)
		}
	})

	apiRoutes.GET("/Play", func(ctx *gin.Context) {
		videoName := ctx.Request.URL.Query().Get("name")
		if videoName == "" {
			ctx.Status(http.StatusNotAcceptable) //missing url parameter
			return
		}

		analyzed := ctx.Request.URL.Query().Get("analyzed")
		if analyzed != "true" && analyzed != "false" {
			ctx.Status(http.StatusNotAcceptable) //missing url parameter
			return
		}

		var videoPath string
		if analyzed == "true" {
			videoPath = path.Join(viper.GetString("directory.ready"), videoName+"."+viper.GetString("video.prod_format"))
		} else {
			videoPath = path.Join(viper.GetString("directory.source"), videoName+"."+viper.GetString("video.prod_format"))
		}

		if _, err := os.Stat(videoPath); err != nil {
			if os.IsNotExist(err) {
				ctx.Status(http.StatusNotFound)
				return
			} else {
				ctx.Status(http.StatusInternalServerError)
				return
			}
		}

		ctx.Header("Content-Type", "video/mp4")
		http.ServeFile(ctx.Writer, ctx.Request, videoPath)
	})

	apiRoutes.POST("/Upload", func(ctx *gin.Context) {
		file, fHeader, err := ctx.Request.FormFile("video")
		if err != nil {
			ctx.Status(http.StatusInternalServerError)
			return
		}
		defer file.Close()

		if existNames, err := utils.ListDir(viper.GetString("directory.source")); err != nil {
			ctx.Status(http.StatusInternalServerError)
			return
		} else {
			if utils.InSlice(fHeader.Filename, existNames) {
				ctx.Status(http.StatusNotAcceptable)
				return
			}
		}

		logrus.Infof("api/Upload: Received new file: name - '%s', size - %v Bytes", fHeader.Filename, fHeader.Size)

		fileBytes, err := io.ReadAll(file)
		if err != nil {
			logrus.Errorf("api/Upload: Could not read request's body, got '%v'", err)
			ctx.Status(http.StatusInternalServerError)
			return
		}

		srcFilePath := path.Join(viper.GetString("directory.source"), fHeader.Filename)

		if err = os.WriteFile(srcFilePath, fileBytes, 0444); err != nil {
			logrus.Errorf("api/Upload: Could not write '%s' file, got '%v'", srcFilePath, err)
			ctx.Status(http.StatusInternalServerError)
			return
		}

		analysisID := uuid.NewString()
		st.Put(&store.Analysis{
			ID:        analysisID,
			VideoName: fHeader.Filename,
			Status:    store.StatusProcessing,
		})

		go video.Analyze(analysisID, fHeader.Filename, st)

		ctx.JSON(http.StatusAccepted, gin.H{"id": analysisID})
	})

	apiRoutes.GET("/Analyses", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, st.List())
	})

	apiRoutes.GET("/Analysis/:id", func(ctx *gin.Context) {
		a, ok := st.Get(ctx.Param("id"))
		if !ok {
			ctx.Status(http.StatusNotFound)
			return
		}
		ctx.JSON(http.StatusOK, a)
	})

	apiRoutes.GET("/Analysis/:id/Stats", func(ctx *gin.Context) {
		a, ok := st.Get(ctx.Param("id"))
		if !ok {
			ctx.Status(http.StatusNotFound)
			return
		}
		if a.Summary == nil {
			ctx.JSON(http.StatusConflict, gin.H{"status": a.Status, "stage": a.Stage})
			return
		}
		ctx.JSON(http.StatusOK, a.Summary)
	})

	apiRoutes.GET("/Analysis/:id/Player/:playerID", func(ctx *gin.Context) {
		a, ok := st.Get(ctx.Param("id"))
		if !ok || a.Summary == nil {
			ctx.Status(http.StatusNotFound)
			return
		}

		playerID, err := strconv.Atoi(ctx.Param("playerID"))
		if err != nil {
			ctx.Status(http.StatusNotAcceptable)
			return
		}

		for _, pm := range a.Summary.Movement {
			if pm.ID == playerID {
				ctx.JSON(http.StatusOK, gin.H{
					"movement":       pm,
					"possession_pct": a.Summary.PlayerPossessionPct[playerID],
					"passes":         a.Summary.Passes.ByPlayer[playerID],
				})
				return
			}
		}

		ctx.Status(http.StatusNotFound)
	})

	apiRoutes.GET("/Progress/:id", func(ctx *gin.Context) {
		serveProgress(ctx, st)
	})

	return r
}
