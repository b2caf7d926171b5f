// Package clients contiene los clientes HTTP hacia los microservicios
// colaboradores.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"pedidos-backoffice/internal/dto"
	"pedidos-backoffice/internal/model"
)

// PedidosClient implementa el repositorio de pedidos contra el API REST
// colaborador. Los errores del backend traen un campo "error" legible
// que se propaga tal cual al usuario.
type PedidosClient struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewPedidosClient(baseURL, token string) *PedidosClient {
	return &PedidosClient{
		baseURL: baseURL,
		token:   token,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *PedidosClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("pedidos request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return errorDelBackend(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// errorDelBackend extrae el mensaje legible de la respuesta de error.
func errorDelBackend(resp *http.Response) error {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(resp.Body)
	if json.Unmarshal(raw, &payload) == nil {
		if payload.Error != "" {
			return errors.New(payload.Error)
		}
		if payload.Message != "" {
			return errors.New(payload.Message)
		}
	}
	return fmt.Errorf("el servidor respondió %d", resp.StatusCode)
}

func (c *PedidosClient) List(ctx context.Context) ([]model.Pedido, error) {
	var out []model.Pedido
	if err := c.do(ctx, http.MethodGet, "/pedidos", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *PedidosClient) FindByID(ctx context.Context, id string) (*model.Pedido, error) {
	var out model.Pedido
	if err := c.do(ctx, http.MethodGet, "/pedidos/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *PedidosClient) Create(ctx context.Context, req dto.CrearPedidoRequest) (*model.Pedido, error) {
	var out model.Pedido
	if err := c.do(ctx, http.MethodPost, "/pedidos", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *PedidosClient) Update(ctx context.Context, id string, req dto.ActualizarPedidoRequest) (*model.Pedido, error) {
	var out model.Pedido
	if err := c.do(ctx, http.MethodPut, "/pedidos/"+id, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *PedidosClient) ChangeStatus(ctx context.Context, id string, estado model.Estado) error {
	body := map[string]model.Estado{"estado": estado}
	return c.do(ctx, http.MethodPatch, "/pedidos/"+id+"/estado", body, nil)
}

func (c *PedidosClient) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/pedidos/"+id, nil, nil)
}
