package rest

const (
	// api
	RouteApiV1 = "/api/v1"

	// auth
	RouteAuth        = RouteApiV1 + "/auth"
	RouteLogin       = RouteAuth + "/login"
	RouteRegister    = RouteAuth + "/register"
	RouteVerifyEmail = RouteAuth + "/verify"

	RouteMe = RouteApiV1 + "/users/me"

	// files
	RouteFiles          = RouteApiV1 + "/files"
	RouteFilesUpload    = RouteFiles + "/upload"
	RouteFilesUploadURL = RouteFiles + "/upload-url"
	RouteFilesUsage     = RouteFiles + "/usage"
	RouteFilesShared    = RouteFiles + "/shared"
	RouteFile           = RouteFiles + "/:file_id"
	RouteFileURL        = RouteFile + "/url"

	// sharing
	RoutePublicLink       = RouteFile + "/public-link"
	RoutePublicLinkRotate = RoutePublicLink + "/rotate"
	RoutePublicLinkQR     = RoutePublicLink + "/qr"
	RouteGrants           = RouteFile + "/grants"
	RouteGrant            = RouteGrants + "/:email"
	RouteShare            = RouteApiV1 + "/share/:token"

	// ops
	RouteHealth  = RouteApiV1 + "/healthz"
	RouteMetrics = RouteApiV1 + "/metrics"
)
