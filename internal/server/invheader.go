package server

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/sanoh-intern/be-finance-accounting/internal/auth"
	invoicedomain "github.com/sanoh-intern/be-finance-accounting/internal/invoice/domain"
	"github.com/sanoh-intern/be-finance-accounting/internal/storage"
)

const dateLayout = "2006-01-02"

func (s *Server) actor(c *gin.Context) (auth.Actor, bool) {
	actor, ok := auth.ActorFrom(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
	}
	return actor, ok
}

func (s *Server) ListInvHeaders(c *gin.Context) {
	actor, ok := s.actor(c)
	if !ok {
		return
	}

	var (
		headers []invoicedomain.InvHeader
		err     error
	)
	if actor.Role == auth.RoleSupplier {
		headers, err = s.invoiceSvc.ListByBPCode(c.Request.Context(), actor.BPCode)
	} else {
		headers, err = s.invoiceSvc.List(c.Request.Context())
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": headers})
}

func (s *Server) ListInvHeadersByBPCode(c *gin.Context) {
	bpCode := strings.TrimSpace(c.Param("bp_code"))
	if bpCode == "" {
		AbortWithError(c, newValidationError("bp_code", "invalid_bp_code", "invalid bp code"))
		return
	}

	headers, err := s.invoiceSvc.ListByBPCode(c.Request.Context(), bpCode)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": headers})
}

func (s *Server) GetInvHeader(c *gin.Context) {
	actor, ok := s.actor(c)
	if !ok {
		return
	}

	header, err := s.invoiceSvc.Get(c.Request.Context(), c.Param("inv_no"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if actor.Role == auth.RoleSupplier && header.BPCode != actor.BPCode {
		AbortWithError(c, invoicedomain.ErrNotFound)
		return
	}

	documents, err := s.invoiceSvc.ListDocuments(c.Request.Context(), header.InvNo)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"header":    header,
		"documents": documents,
	}})
}

// documentUploads maps the multipart form's file fields onto document
// types. Each field accepts a single PDF.
var documentUploads = map[string]storage.DocumentType{
	"invoice_file":     storage.DocumentInvoice,
	"fakturpajak_file": storage.DocumentFakturPajak,
	"suratjalan_file":  storage.DocumentSuratJalan,
	"po_file":          storage.DocumentPO,
}

func (s *Server) StoreInvHeader(c *gin.Context) {
	actor, ok := s.actor(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "multipart form required"))
		return
	}

	req := invoicedomain.CreateRequest{
		InvNo:     strings.TrimSpace(c.PostForm("inv_no")),
		InvFaktur: strings.TrimSpace(c.PostForm("inv_faktur")),
		Reason:    strings.TrimSpace(c.PostForm("reason")),
	}
	if req.InvNo == "" {
		AbortWithError(c, newValidationError("inv_no", "invalid_inv_no", "invoice number is required"))
		return
	}

	req.InvDate, err = time.Parse(dateLayout, c.PostForm("inv_date"))
	if err != nil {
		AbortWithError(c, newValidationError("inv_date", "invalid_inv_date", "invalid invoice date"))
		return
	}
	if raw := c.PostForm("inv_faktur_date"); raw != "" {
		fakturDate, err := time.Parse(dateLayout, raw)
		if err != nil {
			AbortWithError(c, newValidationError("inv_faktur_date", "invalid_inv_faktur_date", "invalid faktur date"))
			return
		}
		req.InvFakturDate = &fakturDate
	}

	req.PPNID, err = strconv.ParseInt(c.PostForm("ppn_id"), 10, 64)
	if err != nil {
		AbortWithError(c, newValidationError("ppn_id", "invalid_ppn_id", "invalid ppn id"))
		return
	}

	for _, raw := range c.PostFormArray("inv_line_ids") {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			AbortWithError(c, newValidationError("inv_line_ids", "invalid_inv_line_ids", "invalid line id"))
			return
		}
		req.LineIDs = append(req.LineIDs, id)
	}

	var openFiles []multipart.File
	defer func() {
		for _, f := range openFiles {
			_ = f.Close()
		}
	}()
	for field, docType := range documentUploads {
		files := form.File[field]
		if len(files) == 0 {
			continue
		}
		f, err := files[0].Open()
		if err != nil {
			AbortWithError(c, newValidationError(field, "invalid_file", "unreadable file"))
			return
		}
		openFiles = append(openFiles, f)
		req.Uploads = append(req.Uploads, invoicedomain.Upload{Type: docType, Content: f})
	}

	header, err := s.invoiceSvc.Create(c.Request.Context(), actor, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "invoice created",
		"data":    header,
	})
}

type updateInvHeaderRequest struct {
	Status        string          `json:"status"`
	Reason        string          `json:"reason"`
	PPHID         int64           `json:"pph_id"`
	PPHBaseAmount decimal.Decimal `json:"pph_base_amount"`
	PlanDate      string          `json:"plan_date"`
	RemoveLineIDs []int64         `json:"remove_line_ids"`
}

func (s *Server) UpdateInvHeader(c *gin.Context) {
	actor, ok := s.actor(c)
	if !ok {
		return
	}

	var body updateInvHeaderRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	req := invoicedomain.DecideRequest{
		Status:        invoicedomain.Status(body.Status),
		Reason:        strings.TrimSpace(body.Reason),
		PPHID:         body.PPHID,
		PPHBaseAmount: body.PPHBaseAmount,
		RemoveLineIDs: body.RemoveLineIDs,
	}
	if !req.Status.Valid() {
		AbortWithError(c, newValidationError("status", "invalid_status", "invalid status"))
		return
	}
	if body.PlanDate != "" {
		planDate, err := time.Parse(dateLayout, body.PlanDate)
		if err != nil {
			AbortWithError(c, newValidationError("plan_date", "invalid_plan_date", "invalid plan date"))
			return
		}
		req.PlanDate = &planDate
	}

	header, err := s.invoiceSvc.Decide(c.Request.Context(), actor, c.Param("inv_no"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "invoice updated",
		"data":    header,
	})
}

func (s *Server) MarkInvHeaderInProcess(c *gin.Context) {
	actor, ok := s.actor(c)
	if !ok {
		return
	}

	header, err := s.invoiceSvc.MarkInProcess(c.Request.Context(), actor, c.Param("inv_no"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "invoice in process",
		"data":    header,
	})
}

func (s *Server) UploadInvHeaderPayment(c *gin.Context) {
	actor, ok := s.actor(c)
	if !ok {
		return
	}

	var req invoicedomain.PaymentRequest
	if raw := c.PostForm("actual_date"); raw != "" {
		actualDate, err := time.Parse(dateLayout, raw)
		if err != nil {
			AbortWithError(c, newValidationError("actual_date", "invalid_actual_date", "invalid actual date"))
			return
		}
		req.ActualDate = &actualDate
	}

	if fileHeader, err := c.FormFile("payment_file"); err == nil {
		f, err := fileHeader.Open()
		if err != nil {
			AbortWithError(c, newValidationError("payment_file", "invalid_file", "unreadable file"))
			return
		}
		defer f.Close()
		req.PaymentFile = &invoicedomain.Upload{Type: storage.DocumentPayment, Content: f}
	}

	header, err := s.invoiceSvc.UploadPayment(c.Request.Context(), actor, c.Param("inv_no"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "invoice paid",
		"data":    header,
	})
}

// GenerateInvHeaderReceipt retries the Ready To Payment side effect when
// the receipt artifact is missing after a transient failure.
func (s *Server) GenerateInvHeaderReceipt(c *gin.Context) {
	result, err := s.invoiceSvc.GenerateReceipt(c.Request.Context(), c.Param("inv_no"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "receipt generated",
		"data":    result,
	})
}
