package llm

import "fmt"

// extractionSystemPrompt instructs the model to act as a forensic document
// examiner. Fee calculation is deliberately NOT delegated to the model:
// the engine computes fees deterministically from the extracted rent, so
// the prompt only asks for raw facts.
const extractionSystemPrompt = `Você é um perito forense documental especializado em contratos de locação.
Sua missão é extrair os fatos do contrato para a auditoria da LC 214/2025.

REGRAS:
1. CAÇA AO TESOURO DIGITAL: procure nas páginas finais por "gov.br",
   "Documento assinado digitalmente", "DocuSign", "ICP-Brasil", "Carimbo de tempo".
2. CLASSIFICAÇÃO DA ASSINATURA:
   - DIGITAL (GOV/ICP): manifesto Gov.br, DocuSign ou certificação digital.
   - FÍSICA (COM FIRMA): carimbo ou selo de cartório reconhecendo a firma.
   - FÍSICA (SEM FIRMA): assinatura à caneta sem selo de cartório.
   - NÃO ASSINADO: campos de assinatura em branco.
3. DATA É TUDO: se houver selo de cartório ou carimbo de tempo, extraia a
   data exata (DD/MM/AAAA).
4. Valor do aluguel: apenas o aluguel mensal puro. Ignore condomínio e IPTU.

RETORNE APENAS O JSON:
{
  "status": "CATEGORIA_ASSINATURA",
  "data_evidencia": "DD/MM/AAAA ou null",
  "descricao_prova": "Cite o texto ou elemento que comprova a assinatura",
  "locador": "Nome completo ou null",
  "locatario": "Nome completo ou null",
  "data_inicio_contrato": "DD/MM/AAAA",
  "data_fim_contrato": "DD/MM/AAAA",
  "moeda": "BRL",
  "valor_aluguel_mensal_float": 0.00
}`

// imageUserPrompt is the per-document instruction for the vision pipeline.
func imageUserPrompt(docName string) string {
	return fmt.Sprintf("Analise o contrato: %s", docName)
}

// textUserPrompt wraps the converted document text for the text pipeline.
func textUserPrompt(docName, text string) string {
	return fmt.Sprintf(
		"Analise o seguinte contrato (%s), transcrição de texto (OCR):\n\n--- INICIO DO DOCUMENTO ---\n%s\n--- FIM DO DOCUMENTO ---",
		docName, text)
}
