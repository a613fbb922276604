package arduino

import (
	"bufio"
	"fmt"
	"io"
	"sync"
)

// Controller отправляет команды в Arduino и дожидается подтверждения каждой
type Controller struct {
	mu     sync.Mutex
	port   io.ReadWriter
	reader *bufio.Reader
}

// NewController создает новый экземпляр Controller поверх открытого порта
func NewController(port io.ReadWriter) *Controller {
	return &Controller{
		port:   port,
		reader: bufio.NewReader(port),
	}
}

// ProcessAndWait выполняет отправку команды и ожидание ответа "received" от Arduino
func (c *Controller) ProcessAndWait(send func(io.Writer) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := send(c.port); err != nil {
		return err
	}

	// Ожидаем ответа от Arduino
	if _, err := WaitForArduinoResponse(c.reader, responseReceived); err != nil {
		return fmt.Errorf("error waiting for Arduino response: %w", err)
	}
	return nil
}

// Move перемещает курсор в абсолютные координаты
func (c *Controller) Move(x, y int) error {
	return c.ProcessAndWait(func(w io.Writer) error { return SendMoveToArduino(w, x, y) })
}

// Click нажимает кнопку мыши count раз
func (c *Controller) Click(button string, count int) error {
	return c.ProcessAndWait(func(w io.Writer) error { return SendClickToArduino(w, button, count) })
}

// KeyDown зажимает клавишу
func (c *Controller) KeyDown(key string) error {
	return c.ProcessAndWait(func(w io.Writer) error { return SendKeyDownToArduino(w, key) })
}

// KeyUp отпускает клавишу
func (c *Controller) KeyUp(key string) error {
	return c.ProcessAndWait(func(w io.Writer) error { return SendKeyUpToArduino(w, key) })
}

// CopyToClipboard кладет текст в буфер обмена хоста
func (c *Controller) CopyToClipboard(text string) error {
	return c.ProcessAndWait(func(w io.Writer) error { return SendTextToClipboard(w, text) })
}

// Position запрашивает текущую позицию курсора; Arduino отвечает одной строкой "pos:x,y"
func (c *Controller) Position() (int, int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := SendPositionRequestToArduino(c.port); err != nil {
		return 0, 0, err
	}
	response, err := ReadResponseLine(c.reader)
	if err != nil {
		return 0, 0, err
	}
	return ParsePosition(response)
}
